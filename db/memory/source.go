// Package memory provides in-memory implementations of the storage
// boundary: a row source backed by raw billing rows and a static
// tenant directory. Used by tests and the offline CLI fixture path.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"costwatch/core/formula"
	"costwatch/core/period"
	"costwatch/core/types"
	"costwatch/db"
	"costwatch/internal/errors"
)

// Source is a row source over in-memory billing rows, keyed by
// namespace. It aggregates with the same helper the formula package
// exposes, so fixture evaluations match warehouse evaluations.
type Source struct {
	mu   sync.RWMutex
	rows map[string][]types.BillingRow
}

// NewSource creates an empty source
func NewSource() *Source {
	return &Source{
		rows: make(map[string][]types.BillingRow),
	}
}

// Load replaces the rows for a namespace
func (s *Source) Load(namespace string, rows []types.BillingRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[namespace] = rows
}

// Aggregate implements db.RowSource
func (s *Source) Aggregate(_ context.Context, q db.AggregateQuery) (formula.Aggregates, error) {
	w, err := period.Compute(q.Now, q.Granularity)
	if err != nil {
		return formula.Aggregates{}, err
	}

	s.mu.RLock()
	rows := s.rows[q.Namespace]
	s.mu.RUnlock()

	return formula.AggregateRows(filterRows(rows, q.ServiceCode, q.ResourceIDs), w, q.Now), nil
}

// Series implements db.RowSource
func (s *Source) Series(_ context.Context, q db.SeriesQuery) ([]db.SeriesPoint, error) {
	if !q.Bucket.Valid() {
		return nil, errors.Newf(errors.TypeInput, "unsupported bucket granularity: %s", q.Bucket)
	}

	s.mu.RLock()
	rows := s.rows[q.Namespace]
	s.mu.RUnlock()

	sums := make(map[int64]decimal.Decimal)
	for _, row := range filterRows(rows, q.ServiceCode, q.ResourceIDs) {
		start := row.ChargePeriodStart
		if start.Before(q.From) || !start.Before(q.To) {
			continue
		}
		bucket := period.TruncateBucket(start, q.Bucket)
		sums[bucket.Unix()] = sums[bucket.Unix()].Add(row.CostValue)
	}

	keys := make([]int64, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	points := make([]db.SeriesPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, db.SeriesPoint{
			Timestamp: time.Unix(k, 0).UTC(),
			Value:     sums[k],
		})
	}
	return points, nil
}

func filterRows(rows []types.BillingRow, serviceCode string, resourceIDs []string) []types.BillingRow {
	if serviceCode == "" && len(resourceIDs) == 0 {
		return rows
	}
	var allowed map[string]bool
	if len(resourceIDs) > 0 {
		allowed = make(map[string]bool, len(resourceIDs))
		for _, id := range resourceIDs {
			allowed[id] = true
		}
	}

	filtered := make([]types.BillingRow, 0, len(rows))
	for _, row := range rows {
		if serviceCode != "" && row.ServiceCode != serviceCode {
			continue
		}
		if allowed != nil && !allowed[row.ResourceID] {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}
