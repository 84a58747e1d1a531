// Package anomaly flags transactions that deviate sharply from their
// category or merchant norms. The detection is heuristic and best-effort;
// the hard guarantees are determinism and that the absolute floor is
// never bypassed by ratio alone.
package anomaly

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/drawar/expense-mate/internal/log"
	"github.com/drawar/expense-mate/internal/model"
	"github.com/drawar/expense-mate/internal/normalize"
)

// Options tunes the detector thresholds.
type Options struct {
	// Floor is the absolute display-currency minimum an amount must
	// exceed before any ratio logic applies.
	Floor decimal.Decimal
	// RatioMedium and RatioHigh are the baseline multiples for the
	// medium and high severities.
	RatioMedium decimal.Decimal
	RatioHigh   decimal.Decimal
	// NewMerchantMultiple is the overall-average multiple a first-ever
	// purchase at an unseen merchant must exceed to rate a low flag.
	NewMerchantMultiple decimal.Decimal
}

// DefaultOptions: floor 25, medium at 3x, high at 5x, new-merchant low at
// 2x the overall average.
func DefaultOptions() Options {
	return Options{
		Floor:               decimal.NewFromInt(25),
		RatioMedium:         decimal.NewFromInt(3),
		RatioHigh:           decimal.NewFromInt(5),
		NewMerchantMultiple: decimal.NewFromInt(2),
	}
}

// baselines holds mean net spend per category and merchant over the
// comparison history, plus the overall mean.
type baselines struct {
	category map[string]decimal.Decimal
	merchant map[string]decimal.Decimal
	overall  decimal.Decimal
}

// Detect scans the current window against baselines built from the
// history rows (typically the previous window). Output carries at most
// one record per transaction, ranked by amount descending. Any internal
// panic degrades to an empty list with a logged diagnostic; the caller
// never sees a failure.
func Detect(current, history []normalize.Row, opts Options, logger *slog.Logger) (out []model.Anomaly) {
	logger = log.OrDiscard(logger)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("anomaly detection failed, returning no flags", "panic", r)
			out = nil
		}
	}()

	base := buildBaselines(history)

	for _, row := range current {
		// The floor guard comes first and is absolute.
		if !row.Net.GreaterThan(opts.Floor) {
			continue
		}
		if a, ok := classify(row, base, opts); ok {
			out = append(out, a)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].TransactionID < out[j].TransactionID
	})
	return out
}

func classify(row normalize.Row, base baselines, opts Options) (model.Anomaly, bool) {
	if b, ok := base.category[row.Tx.Category]; ok && b.IsPositive() {
		if ratio := row.Net.Div(b); ratio.GreaterThan(opts.RatioMedium) {
			return record(row, ratio, opts, "category"), true
		}
		return model.Anomaly{}, false
	}
	if b, ok := base.merchant[row.Tx.Merchant]; ok && b.IsPositive() {
		if ratio := row.Net.Div(b); ratio.GreaterThan(opts.RatioMedium) {
			return record(row, ratio, opts, "merchant"), true
		}
		return model.Anomaly{}, false
	}

	// No baseline at all: a large first-ever purchase at an unseen
	// merchant rates a low flag.
	_, seen := base.merchant[row.Tx.Merchant]
	if !seen && base.overall.IsPositive() &&
		row.Net.GreaterThan(base.overall.Mul(opts.NewMerchantMultiple)) {
		return model.Anomaly{
			TransactionID: row.Tx.ID,
			Severity:      model.SeverityLow,
			Reason:        "large first purchase at a new merchant",
			Amount:        row.Net,
		}, true
	}
	return model.Anomaly{}, false
}

func record(row normalize.Row, ratio decimal.Decimal, opts Options, basis string) model.Anomaly {
	severity := model.SeverityMedium
	if ratio.GreaterThan(opts.RatioHigh) {
		severity = model.SeverityHigh
	}
	return model.Anomaly{
		TransactionID: row.Tx.ID,
		Severity:      severity,
		Reason:        fmt.Sprintf("%sx the %s average", ratio.Round(1), basis),
		Amount:        row.Net,
	}
}

// buildBaselines computes mean positive net spend per category and
// merchant, in input order for reproducibility.
func buildBaselines(history []normalize.Row) baselines {
	catSum := make(map[string]decimal.Decimal)
	catN := make(map[string]int64)
	merSum := make(map[string]decimal.Decimal)
	merN := make(map[string]int64)
	total := decimal.Decimal{}
	var n int64

	for _, r := range history {
		if !r.Net.IsPositive() {
			continue
		}
		catSum[r.Tx.Category] = catSum[r.Tx.Category].Add(r.Net)
		catN[r.Tx.Category]++
		merSum[r.Tx.Merchant] = merSum[r.Tx.Merchant].Add(r.Net)
		merN[r.Tx.Merchant]++
		total = total.Add(r.Net)
		n++
	}

	b := baselines{
		category: make(map[string]decimal.Decimal, len(catSum)),
		merchant: make(map[string]decimal.Decimal, len(merSum)),
	}
	for k, sum := range catSum {
		b.category[k] = sum.Div(decimal.NewFromInt(catN[k]))
	}
	for k, sum := range merSum {
		b.merchant[k] = sum.Div(decimal.NewFromInt(merN[k]))
	}
	if n > 0 {
		b.overall = total.Div(decimal.NewFromInt(n))
	}
	return b
}
