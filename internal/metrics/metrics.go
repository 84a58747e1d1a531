// Package metrics computes the scalar summary figures and top-N
// leaderboards for a window of normalized transactions.
package metrics

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/drawar/expense-mate/internal/model"
	"github.com/drawar/expense-mate/internal/normalize"
)

// Group is one rollup bucket: summed net amount and row count for a key.
type Group struct {
	Key    string
	Amount decimal.Decimal
	Count  int
}

// Rollup buckets rows by a grouping key in one pass. Groups appear in
// first-encounter order, which is also the tiebreak order for Top.
func Rollup(rows []normalize.Row, key func(normalize.Row) string) []Group {
	index := make(map[string]int)
	var out []Group
	for _, r := range rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Group{Key: k})
		}
		out[i].Amount = out[i].Amount.Add(r.Net)
		out[i].Count++
	}
	return out
}

// TopByAmount returns the group with the largest amount, earliest
// encountered on ties.
func TopByAmount(groups []Group) (Group, bool) {
	return top(groups, func(a, b Group) bool { return a.Amount.GreaterThan(b.Amount) })
}

// TopByCount returns the group with the most rows, earliest encountered
// on ties.
func TopByCount(groups []Group) (Group, bool) {
	return top(groups, func(a, b Group) bool { return a.Count > b.Count })
}

func top(groups []Group, beats func(a, b Group) bool) (Group, bool) {
	if len(groups) == 0 {
		return Group{}, false
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if beats(g, best) {
			best = g
		}
	}
	return best, true
}

// Summarize runs the single-pass aggregation over the current window's
// normalized snapshot, using the previous window's for the
// period-over-period change. A window with no transactions yields zeroed
// metrics, never an error.
func Summarize(current, previous normalize.Result) model.Metrics {
	m := model.Metrics{}

	for _, r := range current.Spend {
		m.TotalExpenses = m.TotalExpenses.Add(r.Gross)
		m.TotalReimbursed = m.TotalReimbursed.Add(r.Reimbursed)
		m.RewardPoints += r.Tx.RewardPoints
	}
	m.NetExpenses = m.TotalExpenses.Sub(m.TotalReimbursed)
	m.TransactionCount = len(current.Spend)
	if m.TransactionCount > 0 {
		m.AverageAmount = m.TotalExpenses.Div(decimal.NewFromInt(int64(m.TransactionCount)))
	}

	for _, r := range current.Refunds {
		m.RefundCount++
		m.RefundTotal = m.RefundTotal.Add(r.Net)
		m.RewardPoints += r.Tx.RewardPoints
	}

	m.Change = PercentChange(m.NetExpenses, netOf(previous))

	merchants := Rollup(current.Spend, func(r normalize.Row) string {
		return orUnknown(r.Tx.Merchant)
	})
	if g, ok := TopByAmount(merchants); ok {
		m.TopMerchant = leader(g, m.NetExpenses)
	}

	categories := Rollup(current.Spend, func(r normalize.Row) string {
		return strings.TrimSpace(r.Tx.Category)
	})
	if g, ok := TopByAmount(categories); ok {
		m.TopCategory = leader(g, m.NetExpenses)
	}

	methods := Rollup(current.Spend, func(r normalize.Row) string {
		return orUnknown(r.Tx.PaymentMethod)
	})
	if g, ok := TopByCount(methods); ok {
		m.TopPaymentMethod = leader(g, m.NetExpenses)
	}

	return m
}

// PercentChange implements the documented zero-previous convention: both
// nets zero means a plain zero change, while spend appearing against an
// empty previous period sets the New sentinel with Percent left at zero.
// The result is never NaN or infinite.
func PercentChange(currentNet, previousNet decimal.Decimal) model.Change {
	if previousNet.IsZero() {
		if currentNet.IsZero() {
			return model.Change{}
		}
		return model.Change{New: true}
	}
	pct := currentNet.Sub(previousNet).Div(previousNet).Mul(decimal.NewFromInt(100))
	return model.Change{Percent: pct}
}

// netOf sums a window's net expenses without building full metrics.
func netOf(res normalize.Result) decimal.Decimal {
	net := decimal.Decimal{}
	for _, r := range res.Spend {
		net = net.Add(r.Net)
	}
	return net
}

func leader(g Group, total decimal.Decimal) model.Leader {
	l := model.Leader{Key: g.Key, Amount: g.Amount, Count: g.Count}
	if total.IsPositive() {
		l.Share = g.Amount.Div(total).Mul(decimal.NewFromInt(100))
	}
	return l
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return "Unknown"
}
