// Package types - metric definition types
package types

// Granularity is a budget period granularity
type Granularity string

const (
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// Valid reports whether g is a supported period granularity
func (g Granularity) Valid() bool {
	switch g {
	case GranularityMonth, GranularityQuarter, GranularityYear:
		return true
	}
	return false
}

// BucketGranularity is a time-series bucket width. Separate from
// Granularity: series buckets go down to days, budget periods do not.
type BucketGranularity string

const (
	BucketDay     BucketGranularity = "day"
	BucketWeek    BucketGranularity = "week"
	BucketMonth   BucketGranularity = "month"
	BucketQuarter BucketGranularity = "quarter"
)

// Valid reports whether b is a supported bucket granularity
func (b BucketGranularity) Valid() bool {
	switch b {
	case BucketDay, BucketWeek, BucketMonth, BucketQuarter:
		return true
	}
	return false
}

// FormulaShape identifies one of the closed set of formula shapes
type FormulaShape string

const (
	// ShapePeriodToDateSum sums cost from window start, no upper bound
	ShapePeriodToDateSum FormulaShape = "period_to_date_sum"

	// ShapeProratedBudget is the day-prorated share of the period budget
	ShapeProratedBudget FormulaShape = "prorated_budget"

	// ShapeDriftValue is to-date spend minus prorated budget
	ShapeDriftValue FormulaShape = "drift_value"

	// ShapeDriftPercentage is drift as a percentage of prorated budget
	ShapeDriftPercentage FormulaShape = "drift_percentage"

	// ShapeUtilizationActual is spend inside the exact current bucket
	ShapeUtilizationActual FormulaShape = "utilization_actual"

	// ShapeUtilizationPercentage is utilization over the full period budget
	ShapeUtilizationPercentage FormulaShape = "utilization_percentage"

	// ShapeForecastNextPeriod is the flat linear extrapolation to the
	// next comparable period
	ShapeForecastNextPeriod FormulaShape = "forecast_next_period"
)

// BudgetBasis distinguishes the two budget-scaling conventions.
// Row budgets are monthly figures scaled up to the period; tenant tag
// budgets are yearly figures scaled down. Both conventions are kept
// deliberately: unifying them would change visible dashboard numbers.
type BudgetBasis string

const (
	// BudgetBasisMonthlyRow takes MAX(monthly_budget) over matching rows
	BudgetBasisMonthlyRow BudgetBasis = "monthly_row"

	// BudgetBasisYearlyTags takes the tenant's yearly tags budget
	BudgetBasisYearlyTags BudgetBasis = "yearly_tags"
)

// MetricDefinition is one catalog entry. Definitions are static
// configuration generated at startup and never mutated afterwards.
type MetricDefinition struct {
	// Name is the stable external metric name
	Name string `json:"name"`

	// Provider is the cost schema this definition belongs to
	Provider Provider `json:"provider"`

	// Granularity is the budget period
	Granularity Granularity `json:"granularity"`

	// Shape is the formula shape
	Shape FormulaShape `json:"shape"`

	// CostColumn is the raw column summed by this metric
	CostColumn CostColumn `json:"cost_column"`

	// ServiceFilter is an optional equality predicate on service_code
	ServiceFilter string `json:"service_filter,omitempty"`

	// BudgetBasis selects the budget source and its scaling convention
	BudgetBasis BudgetBasis `json:"budget_basis"`
}
