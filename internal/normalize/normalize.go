// Package normalize computes each transaction's net amount in the display
// currency and splits a raw snapshot into the rows aggregation works on.
package normalize

import (
	"github.com/shopspring/decimal"

	"github.com/drawar/expense-mate/internal/currency"
	"github.com/drawar/expense-mate/internal/model"
)

// Row is one transaction with its display-currency figures attached.
type Row struct {
	Tx         model.Transaction
	Gross      decimal.Decimal // converted basis amount
	Reimbursed decimal.Decimal // converted reimbursement
	Net        decimal.Decimal // Gross - Reimbursed
}

// Result is a normalized snapshot slice. Spend holds positive-amount rows
// in input order; Refunds holds non-positive rows retained for raw
// listing; Skipped counts malformed rows excluded from both.
type Result struct {
	Spend   []Row
	Refunds []Row
	Skipped int
}

// NetAmount converts a single transaction to its display-currency net:
// the payment-statement basis when present, gross otherwise, minus any
// reimbursement converted on the same basis.
func NetAmount(tx model.Transaction, display string, conv *currency.Converter) Row {
	amount, cur := tx.Basis()
	gross := conv.Convert(amount, cur, display)
	reimbursed := decimal.Decimal{}
	if !tx.Reimbursement.IsZero() {
		reimbursed = conv.Convert(tx.Reimbursement, cur, display)
	}
	return Row{Tx: tx, Gross: gross, Reimbursed: reimbursed, Net: gross.Sub(reimbursed)}
}

// Snapshot normalizes every transaction in input order. Malformed rows
// are tallied, never fatal.
func Snapshot(txs []model.Transaction, display string, conv *currency.Converter) Result {
	var res Result
	for _, tx := range txs {
		if tx.Malformed() {
			res.Skipped++
			continue
		}
		row := NetAmount(tx, display, conv)
		if tx.IsSpend() {
			res.Spend = append(res.Spend, row)
		} else {
			res.Refunds = append(res.Refunds, row)
		}
	}
	return res
}

// Filter returns the spend rows whose dates a window accepts, preserving
// input order so summation stays reproducible.
func Filter(rows []Row, accept func(model.Transaction) bool) []Row {
	var out []Row
	for _, r := range rows {
		if accept(r.Tx) {
			out = append(out, r)
		}
	}
	return out
}
