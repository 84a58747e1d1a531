package budget

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawar/expense-mate/internal/currency"
	"github.com/drawar/expense-mate/internal/model"
	"github.com/drawar/expense-mate/internal/timewindow"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func conv() *currency.Converter {
	return currency.NewConverter(model.RateTable{}, nil)
}

func monthly(amount string) model.BudgetConfig {
	return model.BudgetConfig{Amount: dec(amount), Currency: "USD", Period: model.PeriodMonthly}
}

func TestPaceAheadMidMonth(t *testing.T) {
	// Monthly budget 1000, day 15 of April (15 of 30 elapsed), net 600:
	// expected 500, variance 1.2, ahead of pace, projection 1200.
	now := date(2025, 4, 15)
	w, err := timewindow.Resolve(timewindow.ThisMonth, now)
	require.NoError(t, err)

	p := Compute(monthly("1000"), w, now, dec("600"), "USD", conv())
	assert.True(t, dec("1000").Equal(p.ScaledBudget))
	assert.True(t, dec("500").Equal(p.ExpectedSpend))
	assert.True(t, dec("1.2").Equal(p.VarianceRatio), "got %s", p.VarianceRatio)
	assert.Equal(t, StatusAhead, p.Status)
	assert.True(t, dec("1200").Equal(p.Projection), "got %s", p.Projection)
}

func TestPaceOnTrackWithinTolerance(t *testing.T) {
	// Variance 1.08 sits inside the 10% band above exact pace.
	now := date(2025, 4, 15)
	w, err := timewindow.Resolve(timewindow.ThisMonth, now)
	require.NoError(t, err)

	p := Compute(monthly("1000"), w, now, dec("540"), "USD", conv())
	assert.True(t, dec("1.08").Equal(p.VarianceRatio))
	assert.Equal(t, StatusOnTrack, p.Status)
}

func TestPaceOverBeatsAhead(t *testing.T) {
	now := date(2025, 4, 29)
	w, err := timewindow.Resolve(timewindow.ThisMonth, now)
	require.NoError(t, err)

	p := Compute(monthly("1000"), w, now, dec("1150"), "USD", conv())
	assert.Equal(t, StatusOver, p.Status, "outright over budget wins regardless of variance")
}

func TestPaceWeeklyScaling(t *testing.T) {
	// A weekly budget viewed over a 30-day month scales 30/7.
	now := date(2025, 4, 15)
	w, err := timewindow.Resolve(timewindow.ThisMonth, now)
	require.NoError(t, err)

	cfg := model.BudgetConfig{Amount: dec("70"), Currency: "USD", Period: model.PeriodWeekly}
	p := Compute(cfg, w, now, dec("0"), "USD", conv())
	assert.True(t, dec("300").Equal(p.ScaledBudget), "got %s", p.ScaledBudget)
}

func TestPaceMonthlyOverMultiMonthWindow(t *testing.T) {
	now := date(2025, 6, 15)
	w, err := timewindow.Resolve(timewindow.LastThreeMonths, now)
	require.NoError(t, err)

	p := Compute(monthly("1000"), w, now, dec("1500"), "USD", conv())
	assert.True(t, dec("3000").Equal(p.ScaledBudget))
	assert.True(t, p.ExpectedSpend.IsZero(), "no elapsed ratio for multi-month windows")
	assert.True(t, p.VarianceRatio.IsZero(), "variance guarded when expected spend is zero")
	assert.Equal(t, StatusOnTrack, p.Status)
}

func TestPaceBudgetCurrencyConverted(t *testing.T) {
	c := currency.NewConverter(model.RateTable{
		Base:  "USD",
		Pairs: map[string]decimal.Decimal{"EUR/USD": dec("1.10")},
	}, nil)
	now := date(2025, 4, 15)
	w, err := timewindow.Resolve(timewindow.ThisMonth, now)
	require.NoError(t, err)

	cfg := model.BudgetConfig{Amount: dec("1000"), Currency: "EUR", Period: model.PeriodMonthly}
	p := Compute(cfg, w, now, dec("0"), "USD", c)
	assert.True(t, dec("1100").Equal(p.ScaledBudget))
}

func TestProjectionGuardsZeroElapsed(t *testing.T) {
	// Now before the window starts: nothing elapsed, net passes through.
	w, err := timewindow.Resolve(timewindow.ThisMonth, date(2025, 4, 15))
	require.NoError(t, err)

	p := Compute(monthly("1000"), w, date(2025, 3, 1), dec("250"), "USD", conv())
	assert.True(t, dec("250").Equal(p.Projection))
}

func TestGaugeColor(t *testing.T) {
	assert.Equal(t, gaugeGreen, GaugeColor(0))
	assert.Equal(t, gaugeGreen, GaugeColor(1.0))
	assert.Equal(t, gaugeRed, GaugeColor(1.5))
	assert.Equal(t, gaugeRed, GaugeColor(9.9))

	mid := GaugeColor(1.25)
	assert.NotEqual(t, gaugeGreen, mid)
	assert.NotEqual(t, gaugeRed, mid)
	assert.Greater(t, mid.R, gaugeGreen.R)
	assert.Less(t, mid.G, gaugeGreen.G)
}
