package formula

import (
	"time"

	"github.com/shopspring/decimal"

	"costwatch/core/period"
	"costwatch/core/types"
)

// AggregateRows computes Aggregates from raw billing rows. Row sources
// that hold rows in memory (tests, CLI fixtures) use this; warehouse
// sources push the same sums into the query instead.
//
// rows must already be filtered to the tenant and, where applicable,
// to a service code or tag-derived resource set.
func AggregateRows(rows []types.BillingRow, w period.Window, now time.Time) Aggregates {
	agg := Aggregates{
		ToDateCost:   decimal.Zero,
		InPeriodCost: decimal.Zero,
		RowCount:     int64(len(rows)),
	}

	nowBucket := period.Truncate(now, w.Granularity)

	for _, row := range rows {
		// "to date": everything since the window opened, including rows
		// dated ahead of ingestion lag. No upper bound.
		if !row.ChargePeriodStart.Before(w.Start) {
			agg.ToDateCost = agg.ToDateCost.Add(row.CostValue)
		}

		// utilization re-truncates both sides so rows outside the exact
		// bucket never leak in
		if period.Truncate(row.ChargePeriodStart, w.Granularity).Equal(nowBucket) {
			agg.InPeriodCost = agg.InPeriodCost.Add(row.CostValue)
		}

		if row.MonthlyBudget.Valid {
			if !agg.MaxRowBudget.Valid || row.MonthlyBudget.Decimal.GreaterThan(agg.MaxRowBudget.Decimal) {
				agg.MaxRowBudget = row.MonthlyBudget
			}
		}
	}

	return agg
}
