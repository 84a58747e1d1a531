package model

import "github.com/shopspring/decimal"

// RateTable holds exchange rates supplied by an external collaborator.
// Pairs are keyed "FROM/TO" with the value in to-units per one from-unit.
// Base names the currency used to triangulate pairs with no direct rate.
type RateTable struct {
	Base  string
	Pairs map[string]decimal.Decimal
}

// PairKey builds the lookup key for a currency pair.
func PairKey(from, to string) string {
	return from + "/" + to
}

// Rate returns the direct rate for from->to, deriving it from the inverse
// pair when only that direction is present.
func (t RateTable) Rate(from, to string) (decimal.Decimal, bool) {
	if r, ok := t.Pairs[PairKey(from, to)]; ok && r.IsPositive() {
		return r, true
	}
	if r, ok := t.Pairs[PairKey(to, from)]; ok && r.IsPositive() {
		return decimal.NewFromInt(1).Div(r), true
	}
	return decimal.Decimal{}, false
}
