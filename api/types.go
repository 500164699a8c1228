// Package api - request/response contracts for the evaluation service.
// The API is stateless and deterministic given a pinned "now"; it
// contains no metric logic.
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"costwatch/core/types"
	"costwatch/db"
)

func init() {
	// dashboard consumers expect value: number | null
	decimal.MarshalJSONWithoutQuotes = true
}

// EvaluateRequest is the input to POST /evaluate
type EvaluateRequest struct {
	// TenantID selects the tenant
	TenantID string `json:"tenant_id"`

	// Metric is the catalog metric name
	Metric string `json:"metric"`

	// TagID optionally scopes the request to one tag
	TagID *int64 `json:"tag_id,omitempty"`

	// Now optionally pins the evaluation instant (testing, backfill)
	Now *time.Time `json:"now,omitempty"`
}

// EvaluateResponse is the output of POST /evaluate
type EvaluateResponse struct {
	RequestID string `json:"request_id"`

	Metric string `json:"metric"`

	// Value is null when the metric has no signal (zero budget)
	Value decimal.NullDecimal `json:"value"`

	Provider    types.Provider    `json:"provider"`
	Granularity types.Granularity `json:"granularity"`
	Shape       types.FormulaShape `json:"shape"`

	// WindowStart and WindowEnd bound the evaluated period
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	ElapsedDays int `json:"elapsed_days"`
	TotalDays   int `json:"total_days"`

	DurationMs int64 `json:"duration_ms"`
}

// SeriesRequest is the input to POST /series
type SeriesRequest struct {
	TenantID string `json:"tenant_id"`
	Metric   string `json:"metric"`

	// Granularity is the series bucket width: day, week, month, quarter
	Granularity types.BucketGranularity `json:"granularity"`

	From  *time.Time `json:"from,omitempty"`
	To    *time.Time `json:"to,omitempty"`
	TagID *int64     `json:"tag_id,omitempty"`
	Now   *time.Time `json:"now,omitempty"`
}

// SeriesResponse is the output of POST /series
type SeriesResponse struct {
	RequestID string           `json:"request_id"`
	Metric    string           `json:"metric"`
	Series    []db.SeriesPoint `json:"series"`
}

// CatalogEntry is one metric listing in GET /catalog
type CatalogEntry struct {
	Name          string             `json:"name"`
	Provider      types.Provider     `json:"provider"`
	Granularity   types.Granularity  `json:"granularity"`
	Shape         types.FormulaShape `json:"shape"`
	ServiceFilter string             `json:"service_filter,omitempty"`
	BudgetBasis   types.BudgetBasis  `json:"budget_basis"`
}

// CatalogResponse is the output of GET /catalog
type CatalogResponse struct {
	RequestID string         `json:"request_id"`
	Count     int            `json:"count"`
	Metrics   []CatalogEntry `json:"metrics"`
}

// ErrorResponse is the error envelope
type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// HealthResponse is the output of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
