// Package types - shared domain types for the cost analytics core
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provider identifies a cloud provider
type Provider string

const (
	ProviderAWS   Provider = "aws"
	ProviderAzure Provider = "azure"
	ProviderGCP   Provider = "gcp"
)

// String returns the string representation
func (p Provider) String() string {
	return string(p)
}

// CostColumn names the raw billing column a metric sums over
type CostColumn string

const (
	// CostColumnList is the undiscounted list price column (AWS, GCP)
	CostColumnList CostColumn = "list_cost"

	// CostColumnBilled is the invoiced amount column (Azure)
	CostColumnBilled CostColumn = "billed_cost"

	// CostColumnEffective is the amortized effective cost column
	CostColumnEffective CostColumn = "effective_cost"
)

// KnownCostColumns is the closed set of columns a query may reference.
// Column names reach the warehouse as identifiers, so anything outside
// this set is rejected before a query is built.
var KnownCostColumns = map[CostColumn]bool{
	CostColumnList:      true,
	CostColumnBilled:    true,
	CostColumnEffective: true,
}

// BillingRow is one cost-bearing event for a tenant.
// Rows are produced by ingestion and immutable once a period closes.
type BillingRow struct {
	// ChargePeriodStart is when the charge period opened (required)
	ChargePeriodStart time.Time `json:"charge_period_start"`

	// ChargePeriodEnd is when the charge period closed
	ChargePeriodEnd time.Time `json:"charge_period_end"`

	// CostValue is sourced from the provider's designated cost column
	CostValue decimal.Decimal `json:"cost_value"`

	// MonthlyBudget is attached by upstream ingestion; constant per
	// tenant/tag within a period, so aggregation takes MAX not SUM
	MonthlyBudget decimal.NullDecimal `json:"monthly_budget"`

	// ServiceCode scopes service-filtered metrics (e.g. "AmazonEC2")
	ServiceCode string `json:"service_code"`

	// TagKey is the resource tag, if any
	TagKey string `json:"tag_key,omitempty"`

	// Region and ResourceID are grouping dimensions only
	Region     string `json:"region,omitempty"`
	ResourceID string `json:"resource_id,omitempty"`
}

// TenantContext is the per-request tenant resolution result
type TenantContext struct {
	// TenantID is the external tenant identifier
	TenantID string `json:"tenant_id"`

	// Provider selects the cost schema for this tenant's billing data
	Provider Provider `json:"provider"`

	// SchemaNamespace is the tenant's storage partition
	SchemaNamespace string `json:"schema_namespace"`

	// TagsYearlyBudget overrides row-level monthly budgets when a
	// tag-scoped view is requested. Yearly-denominated.
	TagsYearlyBudget decimal.NullDecimal `json:"tags_yearly_budget"`
}
