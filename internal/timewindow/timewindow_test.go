package timewindow

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestResolveThisMonth(t *testing.T) {
	w, err := Resolve(ThisMonth, date(2025, 4, 15))
	require.NoError(t, err)
	assert.Equal(t, date(2025, 4, 1), w.Start)
	assert.Equal(t, date(2025, 5, 1), w.End)
	assert.Equal(t, 30, w.Days())
}

func TestResolveLastMonth(t *testing.T) {
	w, err := Resolve(LastMonth, date(2025, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, date(2024, 12, 1), w.Start)
	assert.Equal(t, date(2025, 1, 1), w.End)
	assert.Equal(t, 31, w.Days())

	prev := w.Previous()
	assert.Equal(t, date(2024, 11, 1), prev.Start)
	assert.Equal(t, date(2024, 12, 1), prev.End)
}

func TestResolveThreeMonthWindow(t *testing.T) {
	// Day 15 of the window's last month: the three full months ending at
	// the current month, previous window contiguous and non-overlapping.
	now := date(2025, 6, 15)
	w, err := Resolve(LastThreeMonths, now)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 4, 1), w.Start)
	assert.Equal(t, date(2025, 7, 1), w.End)

	prev := w.Previous()
	assert.Equal(t, date(2025, 1, 1), prev.Start)
	assert.Equal(t, date(2025, 4, 1), prev.End)
	assert.Equal(t, w.Start, prev.End, "windows must touch without overlap")
}

func TestResolveThisYear(t *testing.T) {
	w, err := Resolve(ThisYear, date(2025, 8, 30))
	require.NoError(t, err)
	assert.Equal(t, date(2025, 1, 1), w.Start)
	assert.Equal(t, date(2026, 1, 1), w.End)
	assert.Equal(t, 365, w.Days())
	assert.Equal(t, 12, w.Months)
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve(Timeframe("fortnight"), date(2025, 1, 1))
	assert.Error(t, err)
}

func TestContainsIgnoresTimeOfDay(t *testing.T) {
	w, err := Resolve(ThisMonth, date(2025, 4, 15))
	require.NoError(t, err)
	late := time.Date(2025, 4, 30, 23, 59, 0, 0, time.FixedZone("X", -7*3600))
	assert.True(t, w.Contains(late))
	assert.False(t, w.Contains(date(2025, 5, 1)))
}

func TestElapsedRatio(t *testing.T) {
	// April: 15 of 30 days elapsed.
	w, err := Resolve(ThisMonth, date(2025, 4, 15))
	require.NoError(t, err)
	ratio, ok := w.ElapsedRatio(date(2025, 4, 15))
	require.True(t, ok)
	assert.True(t, decimal.NewFromFloat(0.5).Equal(ratio), "got %s", ratio)
}

func TestElapsedRatioPastWindow(t *testing.T) {
	w, err := Resolve(LastMonth, date(2025, 4, 15))
	require.NoError(t, err)
	ratio, ok := w.ElapsedRatio(date(2025, 4, 15))
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(1).Equal(ratio), "a fully past month is fully elapsed")
}

func TestElapsedRatioMultiMonth(t *testing.T) {
	w, err := Resolve(LastSixMonths, date(2025, 4, 15))
	require.NoError(t, err)
	_, ok := w.ElapsedRatio(date(2025, 4, 15))
	assert.False(t, ok, "multi-month windows have no pacing ratio")
}

func TestDaysElapsedClamped(t *testing.T) {
	w, err := Resolve(ThisMonth, date(2025, 4, 15))
	require.NoError(t, err)
	assert.Equal(t, 0, w.DaysElapsed(date(2025, 3, 20)))
	assert.Equal(t, 30, w.DaysElapsed(date(2025, 6, 1)))
	assert.Equal(t, 1, w.DaysElapsed(date(2025, 4, 1)))
}
