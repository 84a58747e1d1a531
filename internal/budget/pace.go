// Package budget scales a configured budget to the active window and
// classifies spending pace against it.
package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/drawar/expense-mate/internal/currency"
	"github.com/drawar/expense-mate/internal/model"
	"github.com/drawar/expense-mate/internal/timewindow"
)

// Status is the pace classification, evaluated in priority order: over
// budget outright, then ahead of linear pace, then on track.
type Status string

const (
	StatusOver    Status = "over"
	StatusAhead   Status = "ahead-of-pace"
	StatusOnTrack Status = "on-track"
)

// aheadTolerance is the band above exact pace before spend counts as
// ahead: variance must exceed 1.1.
var aheadTolerance = decimal.RequireFromString("1.1")

// Pace is the budget-pacing result for one window, amounts in the display
// currency.
type Pace struct {
	ScaledBudget  decimal.Decimal
	ExpectedSpend decimal.Decimal
	VarianceRatio decimal.Decimal
	Status        Status
	Projection    decimal.Decimal
}

// Compute derives the pace figures from a budget, the active window and
// the window's net expenses. Every ratio is division-guarded; a window
// with no pacing ratio (multi-month) reports zero expected spend.
func Compute(cfg model.BudgetConfig, w timewindow.Window, now time.Time, netExpenses decimal.Decimal, display string, conv *currency.Converter) Pace {
	p := Pace{ScaledBudget: scale(cfg, w, display, conv)}

	if ratio, ok := w.ElapsedRatio(now); ok {
		p.ExpectedSpend = p.ScaledBudget.Mul(ratio)
	}
	if p.ExpectedSpend.IsPositive() {
		p.VarianceRatio = netExpenses.Div(p.ExpectedSpend)
	}

	switch {
	case netExpenses.GreaterThan(p.ScaledBudget):
		p.Status = StatusOver
	case p.VarianceRatio.GreaterThan(aheadTolerance):
		p.Status = StatusAhead
	default:
		p.Status = StatusOnTrack
	}

	p.Projection = project(netExpenses, w, now)
	return p
}

// scale converts the budget to the display currency and stretches it to
// the window: weekly budgets by day count over 7, monthly budgets by the
// window's calendar month count (windows are always month-aligned).
func scale(cfg model.BudgetConfig, w timewindow.Window, display string, conv *currency.Converter) decimal.Decimal {
	amount := conv.Convert(cfg.Amount, cfg.Currency, display)
	switch cfg.Period {
	case model.PeriodWeekly:
		// Multiply before dividing so day counts divisible by 7 stay
		// exact.
		days := decimal.NewFromInt(int64(w.Days()))
		return amount.Mul(days).Div(decimal.NewFromInt(7))
	case model.PeriodMonthly:
		return amount.Mul(decimal.NewFromInt(int64(w.Months)))
	default:
		return decimal.Decimal{}
	}
}

// project extrapolates the window's spend linearly to its full span.
// With no elapsed days yet there is nothing to extrapolate from and the
// net comes back unchanged.
func project(netExpenses decimal.Decimal, w timewindow.Window, now time.Time) decimal.Decimal {
	elapsed := w.DaysElapsed(now)
	if elapsed == 0 {
		return netExpenses
	}
	days := decimal.NewFromInt(int64(w.Days()))
	return netExpenses.Mul(days).Div(decimal.NewFromInt(int64(elapsed)))
}
