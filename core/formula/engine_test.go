package formula

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"costwatch/core/period"
	"costwatch/core/types"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ndec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func mustWindow(t *testing.T, now time.Time, g types.Granularity) period.Window {
	t.Helper()
	w, err := period.Compute(now, g)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return w
}

func eval(t *testing.T, shape types.FormulaShape, in Inputs) decimal.NullDecimal {
	t.Helper()
	v, err := Evaluate(shape, in)
	if err != nil {
		t.Fatalf("Evaluate(%s): %v", shape, err)
	}
	return v
}

func wantValue(t *testing.T, shape types.FormulaShape, got decimal.NullDecimal, want string) {
	t.Helper()
	if !got.Valid {
		t.Fatalf("%s: got null, want %s", shape, want)
	}
	diff := got.Decimal.Sub(dec(want)).Abs()
	if diff.GreaterThan(dec("0.0000001")) {
		t.Errorf("%s = %s, want %s", shape, got.Decimal, want)
	}
}

func wantNull(t *testing.T, shape types.FormulaShape, got decimal.NullDecimal) {
	t.Helper()
	if got.Valid {
		t.Errorf("%s = %s, want null", shape, got.Decimal)
	}
}

// Row with cost 100 on the first day of the month, monthly budget 300,
// evaluated on the 10th day of a 30-day month: spend is exactly on pace.
func TestRowBudgetOnPace(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	w := mustWindow(t, now, types.GranularityMonth)

	rows := []types.BillingRow{{
		ChargePeriodStart: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		CostValue:         dec("100"),
		MonthlyBudget:     ndec("300"),
	}}
	in := Inputs{
		Window:      w,
		Aggregates:  AggregateRows(rows, w, now),
		BudgetBasis: types.BudgetBasisMonthlyRow,
	}

	wantValue(t, types.ShapePeriodToDateSum, eval(t, types.ShapePeriodToDateSum, in), "100")
	wantValue(t, types.ShapeProratedBudget, eval(t, types.ShapeProratedBudget, in), "100")
	wantValue(t, types.ShapeDriftValue, eval(t, types.ShapeDriftValue, in), "0")
	wantValue(t, types.ShapeDriftPercentage, eval(t, types.ShapeDriftPercentage, in), "0")
}

func TestZeroBudgetIsNullNotError(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	w := mustWindow(t, now, types.GranularityMonth)

	rows := []types.BillingRow{{
		ChargePeriodStart: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		CostValue:         dec("100"),
		MonthlyBudget:     ndec("0"),
	}}
	in := Inputs{
		Window:      w,
		Aggregates:  AggregateRows(rows, w, now),
		BudgetBasis: types.BudgetBasisMonthlyRow,
	}

	wantNull(t, types.ShapeDriftPercentage, eval(t, types.ShapeDriftPercentage, in))
	wantNull(t, types.ShapeUtilizationPercentage, eval(t, types.ShapeUtilizationPercentage, in))
	// value shapes stay defined: zero budget prorates to zero
	wantValue(t, types.ShapeDriftValue, eval(t, types.ShapeDriftValue, in), "100")
}

func TestMissingBudgetIsNullPercentage(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	w := mustWindow(t, now, types.GranularityMonth)
	in := Inputs{
		Window:      w,
		Aggregates:  Aggregates{ToDateCost: dec("50"), InPeriodCost: dec("50")},
		BudgetBasis: types.BudgetBasisMonthlyRow,
	}
	wantNull(t, types.ShapeDriftPercentage, eval(t, types.ShapeDriftPercentage, in))
	wantNull(t, types.ShapeUtilizationPercentage, eval(t, types.ShapeUtilizationPercentage, in))
}

// A yearly tags budget of 1200 is scaled down, not up: the monthly
// share is 100, so ten days into a 30-day month the prorated figure is
// 33.33, not the 100 a monthly row budget of 100 would give after
// scaling. The two conventions must not be unified.
func TestYearlyTagsBudgetScalesDown(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	w := mustWindow(t, now, types.GranularityMonth)
	in := Inputs{
		Window:           w,
		Aggregates:       Aggregates{},
		BudgetBasis:      types.BudgetBasisYearlyTags,
		TagsYearlyBudget: ndec("1200"),
	}
	wantValue(t, types.ShapeProratedBudget, eval(t, types.ShapeProratedBudget, in), "33.3333333")

	// for the year window the yearly figure is used as-is
	wy := mustWindow(t, now, types.GranularityYear)
	in.Window = wy
	elapsed := decimal.NewFromInt(int64(wy.ElapsedDays))
	total := decimal.NewFromInt(int64(wy.TotalDays))
	want := dec("1200").Mul(elapsed).Div(total)
	got := eval(t, types.ShapeProratedBudget, in)
	wantValue(t, types.ShapeProratedBudget, got, want.String())
}

func TestRowBudgetScalesUp(t *testing.T) {
	now := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	agg := Aggregates{MaxRowBudget: ndec("100")}

	wq := mustWindow(t, now, types.GranularityQuarter)
	in := Inputs{Window: wq, Aggregates: agg, BudgetBasis: types.BudgetBasisMonthlyRow}
	// full quarter budget 300, day 1 of a 91-day quarter
	want := dec("300").Div(decimal.NewFromInt(int64(wq.TotalDays)))
	wantValue(t, types.ShapeProratedBudget, eval(t, types.ShapeProratedBudget, in), want.String())

	wy := mustWindow(t, now, types.GranularityYear)
	in.Window = wy
	full := dec("1200")
	elapsed := decimal.NewFromInt(int64(wy.ElapsedDays))
	total := decimal.NewFromInt(int64(wy.TotalDays))
	want = full.Mul(elapsed).Div(total)
	wantValue(t, types.ShapeProratedBudget, eval(t, types.ShapeProratedBudget, in), want.String())
}

func TestDriftIdentity(t *testing.T) {
	now := time.Date(2024, time.August, 17, 9, 0, 0, 0, time.UTC)
	agg := Aggregates{
		ToDateCost:   dec("457.91"),
		InPeriodCost: dec("441.50"),
		MaxRowBudget: ndec("650"),
	}
	for _, g := range []types.Granularity{
		types.GranularityMonth, types.GranularityQuarter, types.GranularityYear,
	} {
		in := Inputs{
			Window:      mustWindow(t, now, g),
			Aggregates:  agg,
			BudgetBasis: types.BudgetBasisMonthlyRow,
		}
		sum := eval(t, types.ShapePeriodToDateSum, in)
		prorated := eval(t, types.ShapeProratedBudget, in)
		drift := eval(t, types.ShapeDriftValue, in)
		if !drift.Valid || !sum.Valid || !prorated.Valid {
			t.Fatalf("%s: unexpected null", g)
		}
		if !drift.Decimal.Equal(sum.Decimal.Sub(prorated.Decimal)) {
			t.Errorf("%s: drift %s != sum %s - prorated %s", g, drift.Decimal, sum.Decimal, prorated.Decimal)
		}
	}
}

func TestUtilizationPercentage(t *testing.T) {
	now := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Window: mustWindow(t, now, types.GranularityMonth),
		Aggregates: Aggregates{
			InPeriodCost: dec("150"),
			MaxRowBudget: ndec("600"),
		},
		BudgetBasis: types.BudgetBasisMonthlyRow,
	}
	wantValue(t, types.ShapeUtilizationPercentage, eval(t, types.ShapeUtilizationPercentage, in), "25")

	// quarterly full budget is the monthly figure x3
	in.Window = mustWindow(t, now, types.GranularityQuarter)
	wantValue(t, types.ShapeUtilizationPercentage, eval(t, types.ShapeUtilizationPercentage, in), "8.3333333")
}

func TestForecastLinearExtrapolation(t *testing.T) {
	// spend 150 over 15 elapsed days extrapolates to 300 over a flat
	// 30-day next month
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Window:      mustWindow(t, now, types.GranularityMonth),
		Aggregates:  Aggregates{InPeriodCost: dec("150")},
		BudgetBasis: types.BudgetBasisMonthlyRow,
	}
	wantValue(t, types.ShapeForecastNextPeriod, eval(t, types.ShapeForecastNextPeriod, in), "300")
}

func TestForecastGuardsZeroElapsed(t *testing.T) {
	w := mustWindow(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), types.GranularityMonth)
	w.ElapsedDays = 0 // cannot happen through period.Compute; guard anyway
	in := Inputs{Window: w, Aggregates: Aggregates{InPeriodCost: dec("150")}}
	wantNull(t, types.ShapeForecastNextPeriod, eval(t, types.ShapeForecastNextPeriod, in))
}

func TestUnknownShape(t *testing.T) {
	_, err := Evaluate(types.FormulaShape("median_cost"), Inputs{})
	if err == nil {
		t.Fatal("expected error for unknown shape")
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		Window: mustWindow(t, now, types.GranularityMonth),
		Aggregates: Aggregates{
			ToDateCost:   dec("123.45"),
			InPeriodCost: dec("120"),
			MaxRowBudget: ndec("400"),
		},
		BudgetBasis: types.BudgetBasisMonthlyRow,
	}
	first := eval(t, types.ShapeDriftPercentage, in)
	second := eval(t, types.ShapeDriftPercentage, in)
	if first.Valid != second.Valid || !first.Decimal.Equal(second.Decimal) {
		t.Errorf("evaluation not idempotent: %v vs %v", first, second)
	}
}

func TestAggregateRowsBounds(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	w := mustWindow(t, now, types.GranularityMonth)

	rows := []types.BillingRow{
		// inside the month: counts for both sums
		{ChargePeriodStart: time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC), CostValue: dec("10"), MonthlyBudget: ndec("200")},
		// before the window: counts for neither
		{ChargePeriodStart: time.Date(2024, time.May, 28, 0, 0, 0, 0, time.UTC), CostValue: dec("99"), MonthlyBudget: ndec("500")},
		// after the window (ingestion dated ahead): to-date only
		{ChargePeriodStart: time.Date(2024, time.July, 3, 0, 0, 0, 0, time.UTC), CostValue: dec("7")},
	}

	agg := AggregateRows(rows, w, now)
	if !agg.ToDateCost.Equal(dec("17")) {
		t.Errorf("ToDateCost = %s, want 17", agg.ToDateCost)
	}
	if !agg.InPeriodCost.Equal(dec("10")) {
		t.Errorf("InPeriodCost = %s, want 10", agg.InPeriodCost)
	}
	// MAX over the whole filtered set, not summed
	if !agg.MaxRowBudget.Valid || !agg.MaxRowBudget.Decimal.Equal(dec("500")) {
		t.Errorf("MaxRowBudget = %v, want 500", agg.MaxRowBudget)
	}
	if agg.RowCount != 3 {
		t.Errorf("RowCount = %d, want 3", agg.RowCount)
	}
}

func TestProratedMonotonicInElapsedDays(t *testing.T) {
	agg := Aggregates{MaxRowBudget: ndec("300")}
	prev := decimal.NewFromInt(-1)
	for d := 1; d <= 30; d++ {
		now := time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
		in := Inputs{
			Window:      mustWindow(t, now, types.GranularityMonth),
			Aggregates:  agg,
			BudgetBasis: types.BudgetBasisMonthlyRow,
		}
		got := eval(t, types.ShapeProratedBudget, in)
		if !got.Valid {
			t.Fatal("unexpected null prorated budget")
		}
		if got.Decimal.LessThan(prev) {
			t.Fatalf("prorated budget decreased at day %d: %s -> %s", d, prev, got.Decimal)
		}
		prev = got.Decimal
	}
}
