package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawar/expense-mate/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func table() model.RateTable {
	return model.RateTable{
		Base: "USD",
		Pairs: map[string]decimal.Decimal{
			"EUR/USD": dec("1.10"),
			"USD/JPY": dec("150"),
			"GBP/USD": dec("1.25"),
		},
	}
}

func TestConvertIdentity(t *testing.T) {
	c := NewConverter(table(), nil)
	got := c.Convert(dec("42.50"), "USD", "USD")
	assert.True(t, dec("42.50").Equal(got))
	assert.Zero(t, c.Degraded())
}

func TestConvertDirect(t *testing.T) {
	c := NewConverter(table(), nil)
	got := c.Convert(dec("100"), "EUR", "USD")
	assert.True(t, dec("110").Equal(got), "got %s", got)
}

func TestConvertInverse(t *testing.T) {
	c := NewConverter(table(), nil)
	got := c.Convert(dec("110"), "USD", "EUR")
	assert.True(t, dec("100").Equal(got.Round(6)), "got %s", got)
}

func TestConvertTriangulated(t *testing.T) {
	// EUR -> JPY has no direct pair; goes through USD.
	c := NewConverter(table(), nil)
	got := c.Convert(dec("100"), "EUR", "JPY")
	assert.True(t, dec("16500").Equal(got), "got %s", got)
	assert.Zero(t, c.Degraded())
}

func TestConvertDegradedFallback(t *testing.T) {
	c := NewConverter(table(), nil)
	got := c.Convert(dec("75"), "CHF", "JPY")
	require.True(t, dec("75").Equal(got), "unknown pair must pass through 1:1")
	assert.EqualValues(t, 1, c.Degraded())

	// Same pair again still converts and still counts.
	c.Convert(dec("10"), "CHF", "JPY")
	assert.EqualValues(t, 2, c.Degraded())
}

func TestConvertNoBase(t *testing.T) {
	c := NewConverter(model.RateTable{Pairs: map[string]decimal.Decimal{"EUR/USD": dec("1.10")}}, nil)
	got := c.Convert(dec("5"), "EUR", "JPY")
	assert.True(t, dec("5").Equal(got))
	assert.EqualValues(t, 1, c.Degraded())
}
