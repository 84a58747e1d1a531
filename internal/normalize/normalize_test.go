package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawar/expense-mate/internal/currency"
	"github.com/drawar/expense-mate/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func conv() *currency.Converter {
	return currency.NewConverter(model.RateTable{
		Base:  "USD",
		Pairs: map[string]decimal.Decimal{"EUR/USD": dec("1.10")},
	}, nil)
}

func tx(id, amount, cur, cat string) model.Transaction {
	return model.Transaction{
		ID:       id,
		Date:     date(2025, 4, 10),
		Amount:   dec(amount),
		Currency: cur,
		Category: cat,
		Merchant: "m",
	}
}

func TestNetAmountGrossBasis(t *testing.T) {
	row := NetAmount(tx("t1", "100", "EUR", "groceries"), "USD", conv())
	assert.True(t, dec("110").Equal(row.Gross), "got %s", row.Gross)
	assert.True(t, dec("110").Equal(row.Net))
	assert.True(t, row.Reimbursed.IsZero())
}

func TestNetAmountPaymentBasis(t *testing.T) {
	x := tx("t1", "100", "EUR", "groceries")
	x.PaymentAmount = dec("112")
	x.PaymentCurrency = "USD"
	row := NetAmount(x, "USD", conv())
	assert.True(t, dec("112").Equal(row.Gross), "payment basis overrides gross")
}

func TestNetAmountReimbursement(t *testing.T) {
	x := tx("t1", "100", "EUR", "groceries")
	x.Reimbursement = dec("20")
	row := NetAmount(x, "USD", conv())
	assert.True(t, dec("110").Equal(row.Gross))
	assert.True(t, dec("22").Equal(row.Reimbursed), "reimbursement shares the basis currency")
	assert.True(t, dec("88").Equal(row.Net))
}

func TestSnapshotSplitsAndSkips(t *testing.T) {
	txs := []model.Transaction{
		tx("a", "50", "USD", "groceries"),
		tx("b", "-10", "USD", "groceries"), // refund
		{ID: "c", Amount: dec("5"), Currency: "USD", Category: "x"},          // zero date
		{ID: "d", Date: date(2025, 4, 1), Amount: dec("5"), Currency: "USD"}, // no category
		tx("e", "30", "USD", "fuel"),
	}
	res := Snapshot(txs, "USD", conv())
	require.Len(t, res.Spend, 2)
	assert.Equal(t, "a", res.Spend[0].Tx.ID)
	assert.Equal(t, "e", res.Spend[1].Tx.ID, "input order preserved")
	require.Len(t, res.Refunds, 1)
	assert.Equal(t, "b", res.Refunds[0].Tx.ID)
	assert.Equal(t, 2, res.Skipped)
}

func TestFilter(t *testing.T) {
	res := Snapshot([]model.Transaction{
		tx("a", "50", "USD", "groceries"),
		tx("e", "30", "USD", "fuel"),
	}, "USD", conv())
	got := Filter(res.Spend, func(x model.Transaction) bool { return x.Category == "fuel" })
	require.Len(t, got, 1)
	assert.Equal(t, "e", got[0].Tx.ID)
}
