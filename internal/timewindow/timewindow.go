// Package timewindow maps a timeframe selector to concrete calendar
// windows. Resolution is deterministic: the same selector and clock always
// produce the same current and previous windows.
package timewindow

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Timeframe is the reporting-window selector.
type Timeframe string

const (
	ThisMonth       Timeframe = "this-month"
	LastMonth       Timeframe = "last-month"
	LastTwoMonths   Timeframe = "last-two-months"
	LastThreeMonths Timeframe = "last-three-months"
	LastSixMonths   Timeframe = "last-six-months"
	ThisYear        Timeframe = "this-year"
)

// All lists the valid selectors in display order.
func All() []Timeframe {
	return []Timeframe{ThisMonth, LastMonth, LastTwoMonths, LastThreeMonths, LastSixMonths, ThisYear}
}

// months returns the calendar span and the offset, in months, of the
// window's final month relative to the current month.
func (tf Timeframe) months() (span, offset int, err error) {
	switch tf {
	case ThisMonth:
		return 1, 0, nil
	case LastMonth:
		return 1, 1, nil
	case LastTwoMonths:
		return 2, 0, nil
	case LastThreeMonths:
		return 3, 0, nil
	case LastSixMonths:
		return 6, 0, nil
	case ThisYear:
		return 12, 0, nil
	default:
		return 0, 0, fmt.Errorf("unknown timeframe %q", tf)
	}
}

// Window is a half-open calendar range [Start, End) of whole months.
type Window struct {
	Start  time.Time
	End    time.Time
	Months int
}

// Resolve computes the calendar-aligned window for a selector. Multi-month
// selectors span full months ending at the month containing now; ThisYear
// spans the full calendar year containing now.
func Resolve(tf Timeframe, now time.Time) (Window, error) {
	span, offset, err := tf.months()
	if err != nil {
		return Window{}, err
	}

	var end time.Time
	if tf == ThisYear {
		end = time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	} else {
		end = monthStart(now).AddDate(0, 1-offset, 0)
	}
	return Window{
		Start:  end.AddDate(0, -span, 0),
		End:    end,
		Months: span,
	}, nil
}

// Previous returns the comparable previous window: identical calendar
// span, immediately preceding, non-overlapping.
func (w Window) Previous() Window {
	return Window{
		Start:  w.Start.AddDate(0, -w.Months, 0),
		End:    w.Start,
		Months: w.Months,
	}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	d := dateOnly(t)
	return !d.Before(w.Start) && d.Before(w.End)
}

// Days returns the window's total day count.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

// DaysElapsed returns how many of the window's days have passed as of now,
// counting the current day as elapsed. Clamped to [0, Days].
func (w Window) DaysElapsed(now time.Time) int {
	d := dateOnly(now)
	if d.Before(w.Start) {
		return 0
	}
	if !d.Before(w.End) {
		return w.Days()
	}
	return int(d.Sub(w.Start).Hours()/24) + 1
}

// ElapsedRatio returns daysElapsed/daysInWindow for single-month windows.
// Multi-month windows have no pacing ratio; ok is false and callers treat
// expected spend as zero.
func (w Window) ElapsedRatio(now time.Time) (ratio decimal.Decimal, ok bool) {
	if w.Months != 1 {
		return decimal.Decimal{}, false
	}
	elapsed := decimal.NewFromInt(int64(w.DaysElapsed(now)))
	return elapsed.Div(decimal.NewFromInt(int64(w.Days()))), true
}

// monthStart truncates t to the first instant of its month, in UTC.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// dateOnly drops the time-of-day and zone so window membership depends on
// the calendar date alone.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
