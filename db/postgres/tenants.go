// Package postgres provides the tenant directory: tenant context
// resolution and tag-to-resource lookups over Postgres. Everything is
// $n-parameterized.
package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"costwatch/core/types"
	"costwatch/internal/errors"
)

// TenantDirectory implements db.TenantResolver and db.TagResolver
type TenantDirectory struct {
	db *sql.DB
}

// Open connects to the tenant directory database
func Open(dsn string) (*TenantDirectory, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "failed to open tenant directory", err)
	}
	return &TenantDirectory{db: conn}, nil
}

// Ping checks directory connectivity
func (d *TenantDirectory) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the connection pool
func (d *TenantDirectory) Close() error {
	return d.db.Close()
}

// Resolve implements db.TenantResolver
func (d *TenantDirectory) Resolve(ctx context.Context, tenantID string) (types.TenantContext, error) {
	const query = `
		SELECT provider, schema_namespace, tags_yearly_budget
		FROM tenants
		WHERE tenant_id = $1`

	var (
		tc         types.TenantContext
		provider   string
		tagsBudget sql.NullString
	)
	err := d.db.QueryRowContext(ctx, query, tenantID).Scan(&provider, &tc.SchemaNamespace, &tagsBudget)
	if err == sql.ErrNoRows {
		return types.TenantContext{}, errors.MissingTenant(tenantID)
	}
	if err != nil {
		return types.TenantContext{}, errors.Wrap(errors.TypeRowSource, "tenant lookup failed", err)
	}

	tc.TenantID = tenantID
	tc.Provider = types.Provider(provider)
	if tagsBudget.Valid {
		budget, err := decimal.NewFromString(tagsBudget.String)
		if err != nil {
			return types.TenantContext{}, errors.Wrapf(errors.TypeInternal, err, "malformed tags budget for tenant %s", tenantID)
		}
		tc.TagsYearlyBudget = decimal.NullDecimal{Decimal: budget, Valid: true}
	}
	return tc, nil
}

// ResourceIDs implements db.TagResolver
func (d *TenantDirectory) ResourceIDs(ctx context.Context, tenantID string, tagID int64) ([]string, error) {
	const query = `
		SELECT resource_id
		FROM tag_resources
		WHERE tenant_id = $1 AND tag_id = $2`

	rows, err := d.db.QueryContext(ctx, query, tenantID, tagID)
	if err != nil {
		return nil, errors.Wrap(errors.TypeRowSource, "tag resource lookup failed", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(errors.TypeRowSource, "tag resource scan failed", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.TypeRowSource, "tag resource iteration failed", err)
	}
	return ids, nil
}
