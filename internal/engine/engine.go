// Package engine wires the analytics pipeline together: one call turns a
// transaction snapshot into metrics, the category tree, budget pace,
// anomalies and insights. Results are recomputed from scratch per
// snapshot and memoized by content hash, so identical inputs are served
// bit-identical without recomputation.
package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/drawar/expense-mate/internal/anomaly"
	"github.com/drawar/expense-mate/internal/budget"
	"github.com/drawar/expense-mate/internal/cache"
	"github.com/drawar/expense-mate/internal/currency"
	"github.com/drawar/expense-mate/internal/hierarchy"
	"github.com/drawar/expense-mate/internal/insight"
	"github.com/drawar/expense-mate/internal/log"
	"github.com/drawar/expense-mate/internal/metrics"
	"github.com/drawar/expense-mate/internal/model"
	"github.com/drawar/expense-mate/internal/normalize"
	"github.com/drawar/expense-mate/internal/taxonomy"
	"github.com/drawar/expense-mate/internal/timewindow"
)

// Snapshot is one immutable engine input. The engine never mutates it.
type Snapshot struct {
	Transactions    []model.Transaction // in the collaborator's stable order
	Rates           model.RateTable
	Taxonomy        taxonomy.Table
	Timeframe       timewindow.Timeframe
	DisplayCurrency string
	Now             time.Time
}

// Report is the full analytics output for one snapshot.
type Report struct {
	Window         timewindow.Window
	PreviousWindow timewindow.Window

	Metrics   model.Metrics
	Tree      []model.CategoryNode
	Pace      budget.Pace
	HasBudget bool
	Anomalies []model.Anomaly
	Insights  []model.Insight

	// Skipped counts malformed transactions excluded from aggregation.
	Skipped int
	// DegradedConversions counts currency conversions that fell back to
	// 1:1 for lack of a rate path.
	DegradedConversions int64
}

// Config tunes the pipeline.
type Config struct {
	Hierarchy hierarchy.Options
	Anomaly   anomaly.Options
	CacheSize int
}

// DefaultConfig applies each stage's defaults with a 32-entry memo.
func DefaultConfig() Config {
	return Config{
		Hierarchy: hierarchy.DefaultOptions(),
		Anomaly:   anomaly.DefaultOptions(),
		CacheSize: 32,
	}
}

// Engine computes reports. The only internal state is the memo cache, so
// one Engine can serve concurrent callers.
type Engine struct {
	cfg     Config
	budgets budget.Store
	logger  *slog.Logger
	memo    *cache.LRU[Report]
}

// New creates an Engine. budgets may be nil when no settings store
// exists; pace outputs are then zeroed with HasBudget false.
func New(cfg Config, budgets budget.Store, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		budgets: budgets,
		logger:  log.OrDiscard(logger),
		memo:    cache.NewLRU[Report](cfg.CacheSize, 0),
	}
}

// Analyze runs the full pipeline for a snapshot. The only hard error is
// an unknown timeframe; every degraded condition (missing rates,
// malformed rows, failing budget store) is absorbed into the report and
// logged.
func (e *Engine) Analyze(snap Snapshot) (Report, error) {
	window, err := timewindow.Resolve(snap.Timeframe, snap.Now)
	if err != nil {
		return Report{}, err
	}
	previous := window.Previous()

	budgetCfg, hasBudget := e.loadBudget()

	key := snapshotKey(snap, e.cfg, budgetCfg, hasBudget)
	if cached, ok := e.memo.Get(key); ok {
		return cached, nil
	}

	conv := currency.NewConverter(snap.Rates, e.logger)
	normalized := normalize.Snapshot(snap.Transactions, snap.DisplayCurrency, conv)

	current := windowSlice(normalized, window)
	prior := windowSlice(normalized, previous)

	report := Report{
		Window:         window,
		PreviousWindow: previous,
		Skipped:        normalized.Skipped,
		HasBudget:      hasBudget,
	}

	report.Metrics = metrics.Summarize(current, prior)
	report.Tree = hierarchy.Build(current.Spend, snap.Taxonomy, e.cfg.Hierarchy)
	if hasBudget {
		report.Pace = budget.Compute(budgetCfg, window, snap.Now, report.Metrics.NetExpenses, snap.DisplayCurrency, conv)
	}
	report.Anomalies = anomaly.Detect(current.Spend, prior.Spend, e.cfg.Anomaly, e.logger)
	report.Insights = insight.Generate(report.Metrics, report.Pace, hasBudget, report.Anomalies, e.logger)
	report.DegradedConversions = conv.Degraded()

	e.memo.Set(key, report)
	return report, nil
}

// loadBudget reads the settings store; a store failure means pacing is
// skipped for this run, never a propagated error.
func (e *Engine) loadBudget() (model.BudgetConfig, bool) {
	if e.budgets == nil {
		return model.BudgetConfig{}, false
	}
	cfg, found, err := e.budgets.Get()
	if err != nil {
		e.logger.Warn("budget store unavailable, skipping pace", "err", err)
		return model.BudgetConfig{}, false
	}
	if !found || cfg.Validate() != nil {
		return model.BudgetConfig{}, false
	}
	return cfg, true
}

// windowSlice restricts a normalized snapshot to one window, preserving
// input order.
func windowSlice(res normalize.Result, w timewindow.Window) normalize.Result {
	accept := func(tx model.Transaction) bool { return w.Contains(tx.Date) }
	return normalize.Result{
		Spend:   normalize.Filter(res.Spend, accept),
		Refunds: normalize.Filter(res.Refunds, accept),
		Skipped: res.Skipped,
	}
}

// snapshotKey hashes everything the report depends on: transaction-set
// identity, display currency, timeframe, the calendar date of now, and
// the tuning that shapes the output.
func snapshotKey(snap Snapshot, cfg Config, budgetCfg model.BudgetConfig, hasBudget bool) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d\n", snap.Timeframe, snap.DisplayCurrency, snap.Now.Format("2006-01-02"), len(snap.Transactions))
	for _, tx := range snap.Transactions {
		writeTx(h, tx)
	}
	fmt.Fprintf(h, "cutoff=%s merchants=%t\n", cfg.Hierarchy.OtherCutoff, cfg.Hierarchy.MerchantLevel)
	fmt.Fprintf(h, "floor=%s med=%s high=%s new=%s\n", cfg.Anomaly.Floor, cfg.Anomaly.RatioMedium, cfg.Anomaly.RatioHigh, cfg.Anomaly.NewMerchantMultiple)
	if hasBudget {
		fmt.Fprintf(h, "budget=%s %s %s\n", budgetCfg.Amount, budgetCfg.Currency, budgetCfg.Period)
	}
	fmt.Fprintf(h, "taxonomy=%s\n", snap.Taxonomy.Fingerprint())
	fmt.Fprintf(h, "base=%s\n", snap.Rates.Base)
	pairs := make([]string, 0, len(snap.Rates.Pairs))
	for k := range snap.Rates.Pairs {
		pairs = append(pairs, k)
	}
	sort.Strings(pairs)
	for _, k := range pairs {
		fmt.Fprintf(h, "%s=%s\n", k, snap.Rates.Pairs[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeTx(w io.Writer, tx model.Transaction) {
	fmt.Fprintf(w, "%s|%s|%s|%s|%s|%s|%s|%s|%s|%s|%d\n",
		tx.ID, tx.Date.Format("2006-01-02"), tx.Amount, tx.Currency,
		tx.PaymentAmount, tx.PaymentCurrency, tx.Reimbursement,
		tx.Category, tx.Merchant, tx.PaymentMethod, tx.RewardPoints)
}
