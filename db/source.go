// Package db defines the storage boundary of the analytics core: the
// row source that answers aggregate and series queries, and the tenant
// directory that resolves namespaces, tag budgets and tag filters.
//
// The core never executes queries itself. It hands a typed, fully
// parameterized query object to a RowSource; identifier-position values
// (cost column, namespace) are validated against closed sets by the
// implementations, never interpolated from user input.
package db

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"costwatch/core/formula"
	"costwatch/core/types"
)

// AggregateQuery asks a row source for the sums one metric evaluation
// needs. Filters are typed fields, not query text.
type AggregateQuery struct {
	// Namespace is the tenant's storage partition
	Namespace string

	// CostColumn is the raw column to sum
	CostColumn types.CostColumn

	// Granularity drives the in-period truncation
	Granularity types.Granularity

	// WindowStart is the lower bound of the to-date sum
	WindowStart time.Time

	// Now anchors the in-period bucket
	Now time.Time

	// ServiceCode restricts rows to one service when non-empty
	ServiceCode string

	// ResourceIDs restricts rows to a tag-derived resource set when
	// non-empty
	ResourceIDs []string
}

// SeriesQuery asks a row source for bucketed cost sums
type SeriesQuery struct {
	Namespace   string
	CostColumn  types.CostColumn
	Bucket      types.BucketGranularity
	From        time.Time
	To          time.Time
	ServiceCode string
	ResourceIDs []string
}

// SeriesPoint is one bucket of a cost time series
type SeriesPoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Value     decimal.Decimal `json:"value"`
}

// RowSource answers aggregate and series queries against stored
// billing rows. Implementations may work from raw rows or from
// pre-aggregated tables; the contract only promises the sums.
type RowSource interface {
	// Aggregate returns the sums for one metric evaluation
	Aggregate(ctx context.Context, q AggregateQuery) (formula.Aggregates, error)

	// Series returns bucketed cost sums over [From, To)
	Series(ctx context.Context, q SeriesQuery) ([]SeriesPoint, error)
}

// TenantResolver resolves a tenant ID to its context. Resolution is
// per request and never cached across tenants.
type TenantResolver interface {
	Resolve(ctx context.Context, tenantID string) (types.TenantContext, error)
}

// TagResolver resolves a tag to the resource IDs it is attached to.
// Tag-to-resource bookkeeping lives outside the core; this interface
// is its boundary.
type TagResolver interface {
	ResourceIDs(ctx context.Context, tenantID string, tagID int64) ([]string, error)
}
