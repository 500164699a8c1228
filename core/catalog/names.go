package catalog

import "costwatch/core/types"

// Outbound naming convention, preserved for downstream compatibility:
// <optional-service-prefix>_<granularity-word>_<shape>, with tag-scoped
// variants carrying a tags_ prefix. Examples:
//
//	ecc_month_to_date_cost
//	quarterly_budget_drift_percentage
//	tags_yearly_budget_utilization_percentage
//	next_month_cost_forecast

var granularities = []types.Granularity{
	types.GranularityMonth,
	types.GranularityQuarter,
	types.GranularityYear,
}

var shapes = []types.FormulaShape{
	types.ShapePeriodToDateSum,
	types.ShapeProratedBudget,
	types.ShapeDriftValue,
	types.ShapeDriftPercentage,
	types.ShapeUtilizationActual,
	types.ShapeUtilizationPercentage,
	types.ShapeForecastNextPeriod,
}

// granWord is the noun form used by to-date and forecast names
func granWord(g types.Granularity) string {
	switch g {
	case types.GranularityQuarter:
		return "quarter"
	case types.GranularityYear:
		return "year"
	default:
		return "month"
	}
}

// granAdjective is the adjective form used by budget metric names
func granAdjective(g types.Granularity) string {
	switch g {
	case types.GranularityQuarter:
		return "quarterly"
	case types.GranularityYear:
		return "yearly"
	default:
		return "monthly"
	}
}

// Name builds the stable outbound name for a catalog entry
func Name(shape types.FormulaShape, g types.Granularity, servicePrefix string, tagScoped bool) string {
	var base string
	switch shape {
	case types.ShapePeriodToDateSum:
		base = granWord(g) + "_to_date_cost"
	case types.ShapeProratedBudget:
		base = granAdjective(g) + "_prorated_budget"
	case types.ShapeDriftValue:
		base = granAdjective(g) + "_budget_drift"
	case types.ShapeDriftPercentage:
		base = granAdjective(g) + "_budget_drift_percentage"
	case types.ShapeUtilizationActual:
		base = granAdjective(g) + "_budget_utilization"
	case types.ShapeUtilizationPercentage:
		base = granAdjective(g) + "_budget_utilization_percentage"
	case types.ShapeForecastNextPeriod:
		base = "next_" + granWord(g) + "_cost_forecast"
	}

	switch {
	case tagScoped:
		return "tags_" + base
	case servicePrefix != "":
		return servicePrefix + "_" + base
	default:
		return base
	}
}
