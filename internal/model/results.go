package model

import "github.com/shopspring/decimal"

// Change is a period-over-period percentage change. When the previous
// period's net was zero and the current period spent anything, there is no
// meaningful ratio: New is set and Percent stays zero. Both periods zero
// yields a plain zero change. Percent is never NaN or infinite.
type Change struct {
	Percent decimal.Decimal
	New     bool
}

// Leader is one top-N leaderboard entry.
type Leader struct {
	Key    string
	Amount decimal.Decimal
	Count  int
	Share  decimal.Decimal // percent of the leaderboard total, 0 if total is 0
}

// Metrics are the scalar summary figures for one window, all amounts in
// the display currency.
type Metrics struct {
	TotalExpenses    decimal.Decimal
	TotalReimbursed  decimal.Decimal
	NetExpenses      decimal.Decimal
	TransactionCount int
	AverageAmount    decimal.Decimal
	Change           Change
	RewardPoints     int64
	RefundCount      int
	RefundTotal      decimal.Decimal
	TopMerchant      Leader
	TopCategory      Leader
	TopPaymentMethod Leader
}

// CategoryNode is one node of the category hierarchy. Children are sorted
// by amount descending (ties lexicographic), with any "Other" bucket last.
type CategoryNode struct {
	Name       string
	Amount     decimal.Decimal
	Percentage decimal.Decimal // share of the parent level's total, 0 if that total is 0
	Children   []CategoryNode
}

// Severity grades an anomaly or insight.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Anomaly flags one transaction that deviates sharply from its category or
// merchant baseline.
type Anomaly struct {
	TransactionID string
	Severity      Severity
	Reason        string
	Amount        decimal.Decimal
}

// Insight is one ranked recommendation derived from the other outputs.
// Dismissal state belongs to the caller.
type Insight struct {
	Severity Severity
	Title    string
	Message  string
	Action   string // optional reference for the caller, e.g. "review-anomalies"
}
