// Package hierarchy rolls normalized spend up into the
// Parent -> Subcategory -> Merchant category tree. Build is a pure
// function: the same rows, taxonomy and options always yield the same
// tree, with a deterministic ordering at every level.
package hierarchy

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/drawar/expense-mate/internal/model"
	"github.com/drawar/expense-mate/internal/normalize"
	"github.com/drawar/expense-mate/internal/taxonomy"
)

// OtherBucket names the synthetic node that absorbs below-cutoff siblings.
const OtherBucket = "Other"

// Options controls tree construction.
type Options struct {
	// OtherCutoff is the percent share of the immediate level total below
	// which a node merges into the trailing Other bucket. Zero disables
	// merging.
	OtherCutoff decimal.Decimal
	// MerchantLevel adds the per-merchant third level under each
	// subcategory.
	MerchantLevel bool
}

// DefaultOptions uses the 5% cutoff with the merchant level enabled.
func DefaultOptions() Options {
	return Options{OtherCutoff: decimal.NewFromInt(5), MerchantLevel: true}
}

// Build aggregates positive-spend rows into the category tree. Amounts
// are summed in input order; percentages are shares of each level's total
// (zero when the total is zero).
func Build(rows []normalize.Row, tbl taxonomy.Table, opts Options) []model.CategoryNode {
	parents := group(rows, func(r normalize.Row) string {
		return taxonomy.Get(tbl.ParentOf(r.Tx.Category)).DisplayName
	})

	total := decimal.Decimal{}
	for _, g := range parents {
		total = total.Add(g.amount)
	}

	return level(parents, total, opts, 0)
}

// level turns one tier of groups into nodes: threshold small siblings
// into Other, recurse into survivors, order descending by amount with
// lexicographic ties, Other always last.
func level(groups []bucket, total decimal.Decimal, opts Options, depth int) []model.CategoryNode {
	if len(groups) == 0 {
		return nil
	}

	kept, other := threshold(groups, total, opts.OtherCutoff)

	nodes := make([]model.CategoryNode, 0, len(kept)+1)
	for _, g := range kept {
		node := model.CategoryNode{
			Name:       g.name,
			Amount:     g.amount,
			Percentage: share(g.amount, total),
		}
		if children := childGroups(g, opts, depth); children != nil {
			node.Children = level(children, g.amount, opts, depth+1)
		}
		nodes = append(nodes, node)
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		if !nodes[i].Amount.Equal(nodes[j].Amount) {
			return nodes[i].Amount.GreaterThan(nodes[j].Amount)
		}
		return nodes[i].Name < nodes[j].Name
	})

	if !other.amount.IsZero() || other.merged > 0 {
		// The Other bucket is never split further and sorts last
		// regardless of size.
		nodes = append(nodes, model.CategoryNode{
			Name:       OtherBucket,
			Amount:     other.amount,
			Percentage: share(other.amount, total),
		})
	}
	return nodes
}

// childGroups produces the next tier under a bucket, or nil at the leaf
// tier.
func childGroups(g bucket, opts Options, depth int) []bucket {
	switch depth {
	case 0:
		return group(g.rows, func(r normalize.Row) string {
			return strings.TrimSpace(r.Tx.Category)
		})
	case 1:
		if !opts.MerchantLevel {
			return nil
		}
		return group(g.rows, func(r normalize.Row) string {
			if m := strings.TrimSpace(r.Tx.Merchant); m != "" {
				return m
			}
			return "Unknown"
		})
	default:
		return nil
	}
}

// bucket is one named group of rows and their summed net amount.
type bucket struct {
	name   string
	amount decimal.Decimal
	rows   []normalize.Row
	merged int // siblings folded in when this is the Other bucket
}

// group sums rows by key in input order.
func group(rows []normalize.Row, key func(normalize.Row) string) []bucket {
	index := make(map[string]int)
	var out []bucket
	for _, r := range rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, bucket{name: k})
		}
		out[i].amount = out[i].amount.Add(r.Net)
		out[i].rows = append(out[i].rows, r)
	}
	return out
}

// threshold splits groups into survivors and a merged Other bucket. A
// group survives when the level total is zero, the cutoff is zero, or its
// share meets the cutoff. A surviving group already named Other still
// folds into the bucket so one trailing Other node exists at most.
func threshold(groups []bucket, total decimal.Decimal, cutoff decimal.Decimal) (kept []bucket, other bucket) {
	other = bucket{name: OtherBucket}
	for _, g := range groups {
		small := cutoff.IsPositive() && total.IsPositive() && share(g.amount, total).LessThan(cutoff)
		if small || g.name == OtherBucket {
			if small {
				other.merged++
			}
			other.amount = other.amount.Add(g.amount)
			continue
		}
		kept = append(kept, g)
	}
	if other.merged == 0 && other.amount.IsZero() {
		return kept, bucket{}
	}
	return kept, other
}

// share returns amount/total*100, zero when total is not positive.
func share(amount, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Decimal{}
	}
	return amount.Div(total).Mul(decimal.NewFromInt(100))
}
