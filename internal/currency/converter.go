// Package currency converts amounts between currencies using a supplied
// rate table. Conversion never fails hard: a pair with no rate path
// degrades to a 1:1 identity conversion with a logged warning, since an
// approximate figure beats a blocked dashboard.
package currency

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/drawar/expense-mate/internal/log"
	"github.com/drawar/expense-mate/internal/model"
)

// Converter performs rate-table arithmetic. It holds no mutable state
// beyond a degraded-conversion counter, so a single Converter is safe to
// share across windows evaluated in parallel.
type Converter struct {
	table    model.RateTable
	logger   *slog.Logger
	degraded atomic.Int64

	mu     sync.Mutex
	warned map[string]struct{} // pairs already warned about, to keep logs quiet
}

// NewConverter builds a Converter over a rate table. A nil logger
// discards degraded-mode warnings.
func NewConverter(table model.RateTable, logger *slog.Logger) *Converter {
	return &Converter{
		table:  table,
		logger: log.OrDiscard(logger),
		warned: make(map[string]struct{}),
	}
}

// Convert returns amount expressed in the to currency. Resolution order:
// identity, direct or inverse pair, triangulation through the table's base
// currency, then a degraded 1:1 fallback.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	if from == to || from == "" || to == "" {
		return amount
	}
	if rate, ok := c.table.Rate(from, to); ok {
		return amount.Mul(rate)
	}
	if rate, ok := c.triangulate(from, to); ok {
		return amount.Mul(rate)
	}

	c.degraded.Add(1)
	key := model.PairKey(from, to)
	c.mu.Lock()
	_, seen := c.warned[key]
	if !seen {
		c.warned[key] = struct{}{}
	}
	c.mu.Unlock()
	if !seen {
		c.logger.Warn("no rate path, using 1:1 identity", "from", from, "to", to)
	}
	return amount
}

// triangulate derives from->to through the base currency when both legs
// have rates.
func (c *Converter) triangulate(from, to string) (decimal.Decimal, bool) {
	base := c.table.Base
	if base == "" || from == base || to == base {
		return decimal.Decimal{}, false
	}
	toBase, ok := c.table.Rate(from, base)
	if !ok {
		return decimal.Decimal{}, false
	}
	fromBase, ok := c.table.Rate(base, to)
	if !ok {
		return decimal.Decimal{}, false
	}
	return toBase.Mul(fromBase), true
}

// Degraded returns how many conversions fell back to 1:1.
func (c *Converter) Degraded() int64 {
	return c.degraded.Load()
}
