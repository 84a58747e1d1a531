package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one row of the snapshot supplied by the persistence
// collaborator. The engine never mutates it.
type Transaction struct {
	ID              string
	Date            time.Time
	Amount          decimal.Decimal // gross, in Currency; <= 0 marks a refund/adjustment
	Currency        string
	PaymentAmount   decimal.Decimal // card-statement basis, zero if unset
	PaymentCurrency string          // empty if unset
	Reimbursement   decimal.Decimal // zero if none
	Category        string          // free-form leaf category
	Merchant        string
	PaymentMethod   string // payment-instrument reference
	RewardPoints    int64
}

// IsSpend reports whether the transaction counts toward spend totals.
func (t Transaction) IsSpend() bool {
	return t.Amount.IsPositive()
}

// Basis returns the amount and currency aggregation should convert from:
// the payment-statement figures when present, the gross figures otherwise.
func (t Transaction) Basis() (decimal.Decimal, string) {
	if t.PaymentCurrency != "" && !t.PaymentAmount.IsZero() {
		return t.PaymentAmount, t.PaymentCurrency
	}
	return t.Amount, t.Currency
}

// Malformed reports whether the row is unusable for aggregation and should
// be counted in the skipped tally instead.
func (t Transaction) Malformed() bool {
	if t.Date.IsZero() {
		return true
	}
	if strings.TrimSpace(t.Category) == "" {
		return true
	}
	if t.Amount.IsZero() && t.PaymentAmount.IsZero() {
		return true
	}
	return t.Currency == ""
}
