package period

import (
	"testing"
	"time"

	"costwatch/core/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthWindow(t *testing.T) {
	now := time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC)
	w, err := Compute(now, types.GranularityMonth)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !w.Start.Equal(date(2024, time.June, 1)) {
		t.Errorf("Start = %v, want June 1", w.Start)
	}
	if !w.End.Equal(date(2024, time.July, 1)) {
		t.Errorf("End = %v, want July 1", w.End)
	}
	if w.TotalDays != 30 {
		t.Errorf("TotalDays = %d, want 30", w.TotalDays)
	}
	if w.ElapsedDays != 10 {
		t.Errorf("ElapsedDays = %d, want 10", w.ElapsedDays)
	}
}

func TestLeapFebruary(t *testing.T) {
	w, err := Compute(date(2024, time.February, 15), types.GranularityMonth)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if w.TotalDays != 29 {
		t.Errorf("leap February TotalDays = %d, want 29", w.TotalDays)
	}

	w, err = Compute(date(2023, time.February, 15), types.GranularityMonth)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if w.TotalDays != 28 {
		t.Errorf("February TotalDays = %d, want 28", w.TotalDays)
	}
}

func TestQuarterWindow(t *testing.T) {
	// Q1 2024 contains a leap February: 31 + 29 + 31 = 91 days
	now := date(2024, time.February, 20)
	w, err := Compute(now, types.GranularityQuarter)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !w.Start.Equal(date(2024, time.January, 1)) {
		t.Errorf("Start = %v, want Jan 1", w.Start)
	}
	if !w.End.Equal(date(2024, time.April, 1)) {
		t.Errorf("End = %v, want Apr 1", w.End)
	}
	if w.TotalDays != 91 {
		t.Errorf("TotalDays = %d, want 91", w.TotalDays)
	}
	// Jan has 31 days, so Feb 20 is day 51 of the quarter
	if w.ElapsedDays != 51 {
		t.Errorf("ElapsedDays = %d, want 51", w.ElapsedDays)
	}
}

func TestYearWindow(t *testing.T) {
	w, err := Compute(date(2024, time.July, 1), types.GranularityYear)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if w.TotalDays != 366 {
		t.Errorf("leap year TotalDays = %d, want 366", w.TotalDays)
	}

	w, err = Compute(date(2023, time.July, 1), types.GranularityYear)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if w.TotalDays != 365 {
		t.Errorf("TotalDays = %d, want 365", w.TotalDays)
	}
}

func TestElapsedNeverZero(t *testing.T) {
	// First instant of each period: today counts, so elapsed is 1
	for _, g := range []types.Granularity{
		types.GranularityMonth, types.GranularityQuarter, types.GranularityYear,
	} {
		w, err := Compute(date(2024, time.October, 1), g)
		if err != nil {
			t.Fatalf("Compute(%s): %v", g, err)
		}
		if w.ElapsedDays != 1 {
			t.Errorf("%s: ElapsedDays at window start = %d, want 1", g, w.ElapsedDays)
		}
	}
}

func TestElapsedMonotonic(t *testing.T) {
	prev := 0
	for d := 1; d <= 31; d++ {
		w, err := Compute(date(2024, time.March, d), types.GranularityMonth)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if w.ElapsedDays <= prev {
			t.Fatalf("ElapsedDays not strictly increasing at day %d: %d -> %d", d, prev, w.ElapsedDays)
		}
		if w.ElapsedDays > w.TotalDays {
			t.Fatalf("ElapsedDays %d exceeds TotalDays %d", w.ElapsedDays, w.TotalDays)
		}
		prev = w.ElapsedDays
	}
}

func TestInvalidGranularity(t *testing.T) {
	if _, err := Compute(date(2024, time.March, 1), types.Granularity("week")); err == nil {
		t.Fatal("expected error for unsupported granularity")
	}
}

func TestTruncateQuarterBoundaries(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2024, time.January, 1), date(2024, time.January, 1)},
		{date(2024, time.March, 31), date(2024, time.January, 1)},
		{date(2024, time.April, 1), date(2024, time.April, 1)},
		{date(2024, time.December, 31), date(2024, time.October, 1)},
	}
	for _, tc := range cases {
		got := Truncate(tc.in, types.GranularityQuarter)
		if !got.Equal(tc.want) {
			t.Errorf("Truncate(%v, quarter) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTruncateBucketWeek(t *testing.T) {
	// 2024-06-12 is a Wednesday; the week starts Monday 2024-06-10
	got := TruncateBucket(date(2024, time.June, 12), types.BucketWeek)
	if !got.Equal(date(2024, time.June, 10)) {
		t.Errorf("week start = %v, want June 10", got)
	}
	// Monday truncates to itself
	got = TruncateBucket(date(2024, time.June, 10), types.BucketWeek)
	if !got.Equal(date(2024, time.June, 10)) {
		t.Errorf("Monday week start = %v, want June 10", got)
	}
}

func TestNextBucket(t *testing.T) {
	cases := []struct {
		bucket types.BucketGranularity
		in     time.Time
		want   time.Time
	}{
		{types.BucketDay, date(2024, time.February, 28), date(2024, time.February, 29)},
		{types.BucketWeek, date(2024, time.June, 10), date(2024, time.June, 17)},
		{types.BucketMonth, date(2024, time.January, 1), date(2024, time.February, 1)},
		{types.BucketQuarter, date(2024, time.October, 1), date(2025, time.January, 1)},
	}
	for _, tc := range cases {
		got := NextBucket(tc.in, tc.bucket)
		if !got.Equal(tc.want) {
			t.Errorf("NextBucket(%v, %s) = %v, want %v", tc.in, tc.bucket, got, tc.want)
		}
	}
}

func TestNextPeriodDays(t *testing.T) {
	if d := NextPeriodDays(types.GranularityMonth); d != 30 {
		t.Errorf("month = %d, want 30", d)
	}
	if d := NextPeriodDays(types.GranularityQuarter); d != 90 {
		t.Errorf("quarter = %d, want 90", d)
	}
	if d := NextPeriodDays(types.GranularityYear); d != 365 {
		t.Errorf("year = %d, want 365", d)
	}
}
