// Package clickhouse provides the warehouse row source. Aggregation is
// pushed into the database: the core receives pre-computed sums, never
// raw rows.
//
// Queries are parameterized. The only identifier-position inputs are
// the cost column, validated against the closed column set, and the
// tenant namespace, validated as a bare identifier.
package clickhouse

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/shopspring/decimal"

	"costwatch/core/formula"
	"costwatch/core/types"
	"costwatch/db"
	"costwatch/internal/errors"
)

const billingTable = "billing_rows"

// namespaces are bare identifiers; anything else is rejected before a
// query is built
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds ClickHouse connection configuration
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Debug    bool
}

// Source implements db.RowSource against a ClickHouse warehouse
type Source struct {
	conn clickhouse.Conn
	cfg  *Config
}

// NewSource connects to ClickHouse
func NewSource(cfg *Config) (*Source, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: cfg.Debug,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, errors.RowSource("failed to connect to ClickHouse", err)
	}

	return &Source{conn: conn, cfg: cfg}, nil
}

// Ping checks warehouse connectivity
func (s *Source) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the connection
func (s *Source) Close() error {
	return s.conn.Close()
}

// Aggregate implements db.RowSource
func (s *Source) Aggregate(ctx context.Context, q db.AggregateQuery) (formula.Aggregates, error) {
	table, err := qualifiedTable(q.Namespace)
	if err != nil {
		return formula.Aggregates{}, err
	}
	costCol, err := costColumn(q.CostColumn)
	if err != nil {
		return formula.Aggregates{}, err
	}
	trunc, err := truncateFn(q.Granularity)
	if err != nil {
		return formula.Aggregates{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			sumIf(%[1]s, charge_period_start >= ?) AS to_date_cost,
			sumIf(%[1]s, %[2]s(charge_period_start) = %[2]s(?)) AS in_period_cost,
			max(monthly_budget) AS max_budget,
			count() AS row_count
		FROM %[3]s
		WHERE 1 = 1`, costCol, trunc, table)
	args := []interface{}{q.WindowStart, q.Now}
	query, args = appendFilters(query, args, q.ServiceCode, q.ResourceIDs)

	row := s.conn.QueryRow(ctx, query, args...)

	var (
		agg       formula.Aggregates
		maxBudget *decimal.Decimal
		count     uint64
	)
	if err := row.Scan(&agg.ToDateCost, &agg.InPeriodCost, &maxBudget, &count); err != nil {
		return formula.Aggregates{}, errors.RowSource("aggregate query failed", err)
	}
	if maxBudget != nil {
		agg.MaxRowBudget = decimal.NullDecimal{Decimal: *maxBudget, Valid: true}
	}
	agg.RowCount = int64(count)
	return agg, nil
}

// Series implements db.RowSource
func (s *Source) Series(ctx context.Context, q db.SeriesQuery) ([]db.SeriesPoint, error) {
	table, err := qualifiedTable(q.Namespace)
	if err != nil {
		return nil, err
	}
	costCol, err := costColumn(q.CostColumn)
	if err != nil {
		return nil, err
	}
	bucket, err := bucketFn(q.Bucket)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			%s(charge_period_start) AS bucket,
			sum(%s) AS cost
		FROM %s
		WHERE charge_period_start >= ? AND charge_period_start < ?`, bucket, costCol, table)
	args := []interface{}{q.From, q.To}
	query, args = appendFilters(query, args, q.ServiceCode, q.ResourceIDs)
	query += `
		GROUP BY bucket
		ORDER BY bucket`

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.RowSource("series query failed", err)
	}
	defer rows.Close()

	var points []db.SeriesPoint
	for rows.Next() {
		var p db.SeriesPoint
		if err := rows.Scan(&p.Timestamp, &p.Value); err != nil {
			return nil, errors.RowSource("series scan failed", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.RowSource("series iteration failed", err)
	}
	return points, nil
}

func appendFilters(query string, args []interface{}, serviceCode string, resourceIDs []string) (string, []interface{}) {
	if serviceCode != "" {
		query += " AND service_code = ?"
		args = append(args, serviceCode)
	}
	if len(resourceIDs) > 0 {
		query += " AND resource_id IN (?)"
		args = append(args, resourceIDs)
	}
	return query, args
}

func qualifiedTable(namespace string) (string, error) {
	if namespace == "" {
		return billingTable, nil
	}
	if !identPattern.MatchString(namespace) {
		return "", errors.Newf(errors.TypeInput, "invalid schema namespace: %q", namespace)
	}
	return namespace + "." + billingTable, nil
}

func costColumn(col types.CostColumn) (string, error) {
	if !types.KnownCostColumns[col] {
		return "", errors.Newf(errors.TypeInput, "unknown cost column: %q", col)
	}
	return string(col), nil
}

func truncateFn(g types.Granularity) (string, error) {
	switch g {
	case types.GranularityMonth:
		return "toStartOfMonth", nil
	case types.GranularityQuarter:
		return "toStartOfQuarter", nil
	case types.GranularityYear:
		return "toStartOfYear", nil
	}
	return "", errors.Newf(errors.TypeInput, "unsupported granularity: %s", g)
}

func bucketFn(b types.BucketGranularity) (string, error) {
	switch b {
	case types.BucketDay:
		return "toStartOfDay", nil
	case types.BucketWeek:
		return "toMonday", nil
	case types.BucketMonth:
		return "toStartOfMonth", nil
	case types.BucketQuarter:
		return "toStartOfQuarter", nil
	}
	return "", errors.Newf(errors.TypeInput, "unsupported bucket granularity: %s", b)
}
