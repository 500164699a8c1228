package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"costwatch/core/types"
	"costwatch/db"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func row(start string, cost string, budget string, service string, resource string) types.BillingRow {
	ts, err := time.Parse("2006-01-02", start)
	if err != nil {
		panic(err)
	}
	r := types.BillingRow{
		ChargePeriodStart: ts.UTC(),
		CostValue:         dec(cost),
		ServiceCode:       service,
		ResourceID:        resource,
	}
	if budget != "" {
		r.MonthlyBudget = decimal.NullDecimal{Decimal: dec(budget), Valid: true}
	}
	return r
}

func TestAggregateWindowBounds(t *testing.T) {
	s := NewSource()
	s.Load("tenant_a", []types.BillingRow{
		row("2024-03-28", "40", "300", "AmazonEC2", "i-1"), // before window
		row("2024-04-03", "60", "300", "AmazonEC2", "i-1"),
		row("2024-04-08", "25", "500", "AmazonS3", "b-1"),
		row("2024-05-02", "10", "300", "AmazonEC2", "i-2"), // after "now", still to-date
	})

	now := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	agg, err := s.Aggregate(context.Background(), db.AggregateQuery{
		Namespace:   "tenant_a",
		CostColumn:  types.CostColumnList,
		Granularity: types.GranularityMonth,
		Now:         now,
	})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if !agg.ToDateCost.Equal(dec("95")) {
		t.Errorf("ToDateCost = %s, want 95", agg.ToDateCost)
	}
	if !agg.InPeriodCost.Equal(dec("85")) {
		t.Errorf("InPeriodCost = %s, want 85", agg.InPeriodCost)
	}
	if !agg.MaxRowBudget.Valid || !agg.MaxRowBudget.Decimal.Equal(dec("500")) {
		t.Errorf("MaxRowBudget = %v, want 500", agg.MaxRowBudget)
	}
}

func TestAggregateServiceFilter(t *testing.T) {
	s := NewSource()
	s.Load("tenant_a", []types.BillingRow{
		row("2024-04-03", "60", "300", "AmazonEC2", "i-1"),
		row("2024-04-08", "25", "500", "AmazonS3", "b-1"),
	})

	now := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	agg, err := s.Aggregate(context.Background(), db.AggregateQuery{
		Namespace:   "tenant_a",
		CostColumn:  types.CostColumnList,
		Granularity: types.GranularityMonth,
		Now:         now,
		ServiceCode: "AmazonEC2",
	})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !agg.ToDateCost.Equal(dec("60")) {
		t.Errorf("ToDateCost = %s, want 60", agg.ToDateCost)
	}
	if !agg.MaxRowBudget.Valid || !agg.MaxRowBudget.Decimal.Equal(dec("300")) {
		t.Errorf("MaxRowBudget = %v, want 300", agg.MaxRowBudget)
	}
}

func TestAggregateResourceFilter(t *testing.T) {
	s := NewSource()
	s.Load("tenant_a", []types.BillingRow{
		row("2024-04-03", "60", "", "AmazonEC2", "i-1"),
		row("2024-04-05", "15", "", "AmazonEC2", "i-2"),
	})

	now := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	agg, err := s.Aggregate(context.Background(), db.AggregateQuery{
		Namespace:   "tenant_a",
		CostColumn:  types.CostColumnList,
		Granularity: types.GranularityMonth,
		Now:         now,
		ResourceIDs: []string{"i-2"},
	})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !agg.ToDateCost.Equal(dec("15")) {
		t.Errorf("ToDateCost = %s, want 15", agg.ToDateCost)
	}
	if agg.MaxRowBudget.Valid {
		t.Errorf("MaxRowBudget = %v, want null", agg.MaxRowBudget)
	}
}

func TestAggregateUnknownNamespace(t *testing.T) {
	s := NewSource()
	now := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	agg, err := s.Aggregate(context.Background(), db.AggregateQuery{
		Namespace:   "nobody",
		CostColumn:  types.CostColumnList,
		Granularity: types.GranularityMonth,
		Now:         now,
	})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if agg.RowCount != 0 || !agg.ToDateCost.IsZero() {
		t.Errorf("empty namespace aggregates = %+v, want zero", agg)
	}
}

func TestSeriesMonthBuckets(t *testing.T) {
	s := NewSource()
	s.Load("tenant_a", []types.BillingRow{
		row("2024-04-03", "10", "", "AmazonEC2", "i-1"),
		row("2024-04-20", "15", "", "AmazonEC2", "i-1"),
		row("2024-05-02", "5", "", "AmazonEC2", "i-1"),
		row("2024-06-01", "99", "", "AmazonEC2", "i-1"), // outside [From, To)
	})

	points, err := s.Series(context.Background(), db.SeriesQuery{
		Namespace:  "tenant_a",
		CostColumn: types.CostColumnList,
		Bucket:     types.BucketMonth,
		From:       time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if !points[0].Value.Equal(dec("25")) {
		t.Errorf("April sum = %s, want 25", points[0].Value)
	}
	if !points[1].Value.Equal(dec("5")) {
		t.Errorf("May sum = %s, want 5", points[1].Value)
	}
	if !points[0].Timestamp.Before(points[1].Timestamp) {
		t.Error("series points not in ascending order")
	}
}

func TestSeriesRejectsBadBucket(t *testing.T) {
	s := NewSource()
	_, err := s.Series(context.Background(), db.SeriesQuery{
		Namespace:  "tenant_a",
		CostColumn: types.CostColumnList,
		Bucket:     "hour",
		From:       time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatal("Series accepted an unsupported bucket")
	}
}

func TestTenantDirectory(t *testing.T) {
	d := NewTenantDirectory()
	d.AddTenant(types.TenantContext{
		TenantID:        "acme",
		Provider:        types.ProviderAWS,
		SchemaNamespace: "tenant_acme",
	})
	d.AddTag("acme", 7, []string{"i-1", "i-2"})

	tc, err := d.Resolve(context.Background(), "acme")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tc.SchemaNamespace != "tenant_acme" {
		t.Errorf("namespace = %s, want tenant_acme", tc.SchemaNamespace)
	}

	if _, err := d.Resolve(context.Background(), "ghost"); err == nil {
		t.Fatal("Resolve returned a context for an unknown tenant")
	}

	ids, err := d.ResourceIDs(context.Background(), "acme", 7)
	if err != nil {
		t.Fatalf("ResourceIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("got %d resource IDs, want 2", len(ids))
	}

	ids, err = d.ResourceIDs(context.Background(), "acme", 99)
	if err != nil {
		t.Fatalf("ResourceIDs(unknown tag): %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("unknown tag returned %d resource IDs, want 0", len(ids))
	}
}
