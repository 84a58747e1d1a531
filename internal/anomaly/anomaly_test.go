package anomaly

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawar/expense-mate/internal/model"
	"github.com/drawar/expense-mate/internal/normalize"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func row(id, amount, category, merchant string) normalize.Row {
	net := dec(amount)
	return normalize.Row{
		Tx: model.Transaction{
			ID:       id,
			Date:     time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
			Amount:   net,
			Currency: "USD",
			Category: category,
			Merchant: merchant,
		},
		Gross: net,
		Net:   net,
	}
}

// fifty transactions of 50 give a stable category baseline of 50.
func history() []normalize.Row {
	var rows []normalize.Row
	for i := 0; i < 5; i++ {
		rows = append(rows, row("h", "50", "groceries", "Market"))
	}
	return rows
}

func TestHighSeverityOutlier(t *testing.T) {
	// 500 against a category baseline of 50 is 10x: one high record.
	got := Detect([]normalize.Row{row("t1", "500", "groceries", "Market")}, history(), DefaultOptions(), nil)
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].TransactionID)
	assert.Equal(t, model.SeverityHigh, got[0].Severity)
	assert.True(t, dec("500").Equal(got[0].Amount))
}

func TestMediumSeverityOutlier(t *testing.T) {
	// 200 against baseline 50 is 4x: medium.
	got := Detect([]normalize.Row{row("t1", "200", "groceries", "Market")}, history(), DefaultOptions(), nil)
	require.Len(t, got, 1)
	assert.Equal(t, model.SeverityMedium, got[0].Severity)
}

func TestWithinNormIsQuiet(t *testing.T) {
	got := Detect([]normalize.Row{row("t1", "120", "groceries", "Market")}, history(), DefaultOptions(), nil)
	assert.Empty(t, got, "2.4x the baseline is not an outlier")
}

func TestFloorNeverBypassedByRatio(t *testing.T) {
	// Baseline 2, amount 20: a 10x ratio, but below the absolute floor.
	tiny := []normalize.Row{
		row("h1", "2", "coffee", "Cafe"),
		row("h2", "2", "coffee", "Cafe"),
	}
	got := Detect([]normalize.Row{row("t1", "20", "coffee", "Cafe")}, tiny, DefaultOptions(), nil)
	assert.Empty(t, got)
}

func TestMerchantBaselineWhenCategoryUnseen(t *testing.T) {
	// History has the merchant under a different category.
	hist := []normalize.Row{
		row("h1", "40", "groceries", "Market"),
		row("h2", "60", "groceries", "Market"),
	}
	got := Detect([]normalize.Row{row("t1", "400", "household", "Market")}, hist, DefaultOptions(), nil)
	require.Len(t, got, 1)
	assert.Equal(t, model.SeverityHigh, got[0].Severity, "8x the merchant average")
}

func TestNewMerchantLowFlag(t *testing.T) {
	hist := history() // overall mean 50
	got := Detect([]normalize.Row{row("t1", "150", "gadgets", "NewShop")}, hist, DefaultOptions(), nil)
	require.Len(t, got, 1)
	assert.Equal(t, model.SeverityLow, got[0].Severity)
}

func TestNoHistoryNoFlags(t *testing.T) {
	got := Detect([]normalize.Row{row("t1", "5000", "groceries", "Market")}, nil, DefaultOptions(), nil)
	assert.Empty(t, got, "nothing to compare against")
}

func TestRankedByAmountDescending(t *testing.T) {
	cur := []normalize.Row{
		row("small", "200", "groceries", "Market"),
		row("big", "900", "groceries", "Market"),
	}
	got := Detect(cur, history(), DefaultOptions(), nil)
	require.Len(t, got, 2)
	assert.Equal(t, "big", got[0].TransactionID)
	assert.Equal(t, "small", got[1].TransactionID)
}

func TestDeterministic(t *testing.T) {
	cur := []normalize.Row{
		row("a", "300", "groceries", "Market"),
		row("b", "300", "coffee", "Cafe"),
	}
	hist := append(history(), row("h", "50", "coffee", "Cafe"))
	first := Detect(cur, hist, DefaultOptions(), nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Detect(cur, hist, DefaultOptions(), nil))
	}
}
