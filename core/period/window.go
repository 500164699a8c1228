// Package period computes budget period windows.
// Day counts come from real calendar arithmetic, never from hard-coded
// period lengths: a quarter containing February and a leap year both
// report their true day counts.
package period

import (
	"time"

	"costwatch/core/types"
	"costwatch/internal/errors"
)

// Window is a resolved budget period around a reference instant
type Window struct {
	// Granularity is the period granularity
	Granularity types.Granularity `json:"granularity"`

	// Start is the first instant of the period
	Start time.Time `json:"start"`

	// End is the first instant after the period (exclusive)
	End time.Time `json:"end"`

	// ElapsedDays counts days from Start through "now", inclusive of
	// today. Always >= 1: at the first instant of a period it is 1.
	ElapsedDays int `json:"elapsed_days"`

	// TotalDays is the true number of days in this specific window
	TotalDays int `json:"total_days"`
}

// Compute resolves the window containing now for a granularity
func Compute(now time.Time, g types.Granularity) (Window, error) {
	if !g.Valid() {
		return Window{}, errors.Newf(errors.TypeInput, "unsupported granularity: %s", g)
	}

	start := Truncate(now, g)
	var end time.Time
	switch g {
	case types.GranularityMonth:
		end = start.AddDate(0, 1, 0)
	case types.GranularityQuarter:
		end = start.AddDate(0, 3, 0)
	case types.GranularityYear:
		end = start.AddDate(1, 0, 0)
	}

	return Window{
		Granularity: g,
		Start:       start,
		End:         end,
		ElapsedDays: daysBetween(start, now) + 1,
		TotalDays:   daysBetween(start, end),
	}, nil
}

// Truncate returns the first instant of the period containing t
func Truncate(t time.Time, g types.Granularity) time.Time {
	y, m, _ := t.Date()
	switch g {
	case types.GranularityQuarter:
		qm := time.Month(((int(m)-1)/3)*3 + 1)
		return time.Date(y, qm, 1, 0, 0, 0, 0, t.Location())
	case types.GranularityYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	}
}

// TruncateBucket returns the first instant of the series bucket
// containing t. Weeks start on Monday.
func TruncateBucket(t time.Time, b types.BucketGranularity) time.Time {
	y, m, d := t.Date()
	switch b {
	case types.BucketDay:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	case types.BucketWeek:
		day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case types.BucketQuarter:
		return Truncate(t, types.GranularityQuarter)
	default:
		return Truncate(t, types.GranularityMonth)
	}
}

// NextBucket advances a bucket start by one bucket width
func NextBucket(t time.Time, b types.BucketGranularity) time.Time {
	switch b {
	case types.BucketDay:
		return t.AddDate(0, 0, 1)
	case types.BucketWeek:
		return t.AddDate(0, 0, 7)
	case types.BucketQuarter:
		return t.AddDate(0, 3, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// NextPeriodDays is the flat extrapolation length for forecasts:
// 30 for months, 90 for quarters, 365 for years. This is a pacing
// multiplier, not a calendar projection.
func NextPeriodDays(g types.Granularity) int {
	switch g {
	case types.GranularityQuarter:
		return 90
	case types.GranularityYear:
		return 365
	default:
		return 30
	}
}

// daysBetween counts whole calendar days from a to b, ignoring the
// time of day on either side. DST-safe: dates are compared in UTC.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}
