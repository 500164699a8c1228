// Package formula evaluates the closed set of budget-analytics formula
// shapes. Every shape is a pure function of pre-computed aggregates and
// a period window: no clock access, no I/O, no shared state.
//
// Zero-denominator cases (zero or absent budget, zero elapsed days)
// produce a null result, never an error and never a division: a tenant
// with no budget has "no signal", not infinite drift.
package formula

import (
	"github.com/shopspring/decimal"

	"costwatch/core/period"
	"costwatch/core/types"
	"costwatch/internal/errors"
)

var hundred = decimal.NewFromInt(100)

// Aggregates holds the store-side sums a formula consumes. A row source
// may compute these from raw rows (see AggregateRows) or return them
// directly from a pre-aggregated table; the engine cannot tell.
type Aggregates struct {
	// ToDateCost is the cost sum over rows starting at or after the
	// window start, with no upper bound ("to date", not "in window")
	ToDateCost decimal.Decimal

	// InPeriodCost is the cost sum restricted to rows whose truncated
	// period equals the truncated period of "now"
	InPeriodCost decimal.Decimal

	// MaxRowBudget is MAX(monthly_budget) over matching rows. The
	// budget is a per-period constant, never summed across rows.
	MaxRowBudget decimal.NullDecimal

	// RowCount is the number of matching rows
	RowCount int64
}

// Inputs parameterizes a formula evaluation
type Inputs struct {
	// Window is the resolved budget period
	Window period.Window

	// Aggregates are the store-side sums
	Aggregates Aggregates

	// BudgetBasis selects row monthly budget vs tenant yearly tag budget
	BudgetBasis types.BudgetBasis

	// TagsYearlyBudget is the tenant's yearly tag budget, consulted
	// only when BudgetBasis is BudgetBasisYearlyTags
	TagsYearlyBudget decimal.NullDecimal
}

// Evaluate computes one formula shape. The result is null for
// zero-budget percentage shapes and zero-elapsed forecasts.
func Evaluate(shape types.FormulaShape, in Inputs) (decimal.NullDecimal, error) {
	switch shape {
	case types.ShapePeriodToDateSum:
		return value(in.Aggregates.ToDateCost), nil

	case types.ShapeProratedBudget:
		return value(proratedBudget(in)), nil

	case types.ShapeDriftValue:
		return value(in.Aggregates.ToDateCost.Sub(proratedBudget(in))), nil

	case types.ShapeDriftPercentage:
		prorated := proratedBudget(in)
		if prorated.IsZero() {
			return null(), nil
		}
		drift := in.Aggregates.ToDateCost.Sub(prorated)
		return value(hundred.Mul(drift).Div(prorated)), nil

	case types.ShapeUtilizationActual:
		return value(in.Aggregates.InPeriodCost), nil

	case types.ShapeUtilizationPercentage:
		full := fullPeriodBudget(in)
		if full.IsZero() {
			return null(), nil
		}
		return value(hundred.Mul(in.Aggregates.InPeriodCost).Div(full)), nil

	case types.ShapeForecastNextPeriod:
		if in.Window.ElapsedDays <= 0 {
			return null(), nil
		}
		elapsed := decimal.NewFromInt(int64(in.Window.ElapsedDays))
		next := decimal.NewFromInt(int64(period.NextPeriodDays(in.Window.Granularity)))
		return value(in.Aggregates.InPeriodCost.Div(elapsed).Mul(next)), nil
	}

	return null(), errors.Newf(errors.TypeInput, "unknown formula shape: %s", shape)
}

// fullPeriodBudget is the non-prorated budget for the whole window.
// The two scaling conventions coexist on purpose: a monthly row budget
// is scaled up to the period (x1, x3, x12) while a yearly tags budget
// is scaled down (/12, /4, x1).
func fullPeriodBudget(in Inputs) decimal.Decimal {
	switch in.BudgetBasis {
	case types.BudgetBasisYearlyTags:
		base := nullToZero(in.TagsYearlyBudget)
		switch in.Window.Granularity {
		case types.GranularityMonth:
			return base.Div(decimal.NewFromInt(12))
		case types.GranularityQuarter:
			return base.Div(decimal.NewFromInt(4))
		default:
			return base
		}
	default:
		base := nullToZero(in.Aggregates.MaxRowBudget)
		switch in.Window.Granularity {
		case types.GranularityQuarter:
			return base.Mul(decimal.NewFromInt(3))
		case types.GranularityYear:
			return base.Mul(decimal.NewFromInt(12))
		default:
			return base
		}
	}
}

// proratedBudget is the full period budget paced to even daily spend
func proratedBudget(in Inputs) decimal.Decimal {
	elapsed := decimal.NewFromInt(int64(in.Window.ElapsedDays))
	total := decimal.NewFromInt(int64(in.Window.TotalDays))
	return fullPeriodBudget(in).Mul(elapsed).Div(total)
}

func value(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func null() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

func nullToZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
