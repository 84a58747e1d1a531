package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PeriodType is the cadence a budget amount is defined over.
type PeriodType string

const (
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
)

// BudgetConfig is the budget as stored in the settings store. The engine
// only reads and scales it.
type BudgetConfig struct {
	Amount   decimal.Decimal
	Currency string
	Period   PeriodType
}

// Validate checks the budget is usable for pacing.
func (b BudgetConfig) Validate() error {
	if !b.Amount.IsPositive() {
		return fmt.Errorf("budget amount must be positive, got %s", b.Amount)
	}
	if b.Currency == "" {
		return fmt.Errorf("budget currency is required")
	}
	switch b.Period {
	case PeriodWeekly, PeriodMonthly:
		return nil
	default:
		return fmt.Errorf("unknown budget period %q", b.Period)
	}
}
