package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2025-03", MonthKey(time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2025-01", MonthKey(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   time.Month
		lastDay int
	}{
		{"january", 2025, time.January, 31},
		{"april", 2025, time.April, 30},
		{"february non-leap", 2025, time.February, 28},
		{"february leap", 2024, time.February, 29},
		{"february century leap", 2000, time.February, 29},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthRange(tt.year, tt.month)
			assert.Equal(t, time.Date(tt.year, tt.month, 1, 0, 0, 0, 0, time.UTC), start)
			assert.Equal(t, time.Date(tt.year, tt.month, tt.lastDay, 23, 59, 59, 0, time.UTC), end)
		})
	}
}

func TestYearRange(t *testing.T) {
	start, end := YearRange(2025)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), end)
}

func TestTrailingMonths(t *testing.T) {
	t.Run("within one year", func(t *testing.T) {
		keys := TrailingMonths(3, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, []string{"2025-04", "2025-05", "2025-06"}, keys)
	})

	t.Run("crossing a year boundary", func(t *testing.T) {
		keys := TrailingMonths(4, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, []string{"2024-11", "2024-12", "2025-01", "2025-02"}, keys)
	})

	t.Run("single month", func(t *testing.T) {
		keys := TrailingMonths(1, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, []string{"2025-02"}, keys)
	})
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name                string
		year, month, delta  int
		wantYear, wantMonth int
	}{
		{"no shift", 2025, 6, 0, 2025, 6},
		{"within year", 2025, 3, 4, 2025, 7},
		{"month 13 rolls over", 2025, 12, 1, 2026, 1},
		{"multi-year overflow", 2025, 11, 14, 2027, 1},
		{"underflow to previous year", 2025, 1, -1, 2024, 12},
		{"multi-year underflow", 2025, 2, -14, 2023, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, m := AddMonths(tt.year, tt.month, tt.delta)
			assert.Equal(t, tt.wantYear, y)
			assert.Equal(t, tt.wantMonth, m)
		})
	}
}

func TestMonthIndex(t *testing.T) {
	// Consecutive months across a year boundary differ by exactly 1.
	assert.Equal(t, 1, MonthIndex(2025, 1)-MonthIndex(2024, 12))
	assert.Equal(t, 2, MonthIndex(2025, 1)-MonthIndex(2024, 11))

	idx := MonthIndexOf(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, MonthIndex(2025, 3), idx)
	assert.Equal(t, "2025-03", monthKeyFromIndex(idx))
}
