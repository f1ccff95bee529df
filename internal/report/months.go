// Package report implements the analytics and projection engine: monthly
// rollups, budget-vs-actual, comparative diffing, forward projections and
// restock forecasting. Everything here is a pure computation over rows the
// caller has already fetched; the reference instant is always passed in so
// month-rollover behavior is deterministic under test.
package report

import "time"

// MonthKey truncates a date to its month, formatted "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthRange returns the first instant of the given month and the last
// second of its final calendar day. Variable month lengths and leap-year
// February fall out of AddDate.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
	return start, end
}

// YearRange returns January 1st and the last second of December 31st.
func YearRange(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return start, end
}

// TrailingMonths returns n month keys ordered oldest first, ending at from's
// month inclusive.
func TrailingMonths(n int, from time.Time) []string {
	keys := make([]string, 0, n)
	first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	for i := 0; i < n; i++ {
		keys = append(keys, MonthKey(first.AddDate(0, i, 0)))
	}
	return keys
}

// AddMonths shifts a (year, 1-based month) pair by delta months, normalizing
// overflow and underflow across year boundaries.
func AddMonths(year, month, delta int) (int, int) {
	idx := MonthIndex(year, month) + delta
	y := idx / 12
	m := idx%12 + 1
	if idx < 0 && idx%12 != 0 {
		y--
		m += 12
	}
	return y, m
}

// MonthIndex maps a (year, 1-based month) pair onto a single integer so gap
// arithmetic stays exact across year boundaries.
func MonthIndex(year, month int) int {
	return year*12 + month - 1
}

// MonthIndexOf is MonthIndex applied to a date.
func MonthIndexOf(t time.Time) int {
	return MonthIndex(t.Year(), int(t.Month()))
}

// monthKeyFromIndex converts a month index back to its "YYYY-MM" key.
func monthKeyFromIndex(idx int) string {
	return time.Date(idx/12, time.Month(idx%12+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
