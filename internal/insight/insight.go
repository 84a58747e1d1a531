// Package insight turns the engine's other outputs into a ranked list of
// human-readable recommendations. It is a pure transformation; dismissal
// state lives with the caller.
package insight

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/drawar/expense-mate/internal/budget"
	"github.com/drawar/expense-mate/internal/log"
	"github.com/drawar/expense-mate/internal/model"
)

var (
	surgeThreshold         = decimal.NewFromInt(25)  // percent rise worth calling out
	dropThreshold          = decimal.NewFromInt(-10) // percent fall worth calling out
	concentrationThreshold = decimal.NewFromInt(40)  // top-category share worth calling out
)

// Generate ranks recommendations from the metrics, pace and anomaly
// outputs. hasBudget marks whether a budget was configured; without one
// the pace rules stay silent. An internal failure degrades to an empty
// list with a logged diagnostic.
func Generate(m model.Metrics, p budget.Pace, hasBudget bool, anomalies []model.Anomaly, logger *slog.Logger) (out []model.Insight) {
	logger = log.OrDiscard(logger)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("insight generation failed, returning none", "panic", r)
			out = nil
		}
	}()

	if hasBudget {
		switch p.Status {
		case budget.StatusOver:
			out = append(out, model.Insight{
				Severity: model.SeverityHigh,
				Title:    "Over budget",
				Message: fmt.Sprintf("Net spending of %s has passed the %s budget for this window.",
					m.NetExpenses.StringFixed(2), p.ScaledBudget.StringFixed(2)),
				Action: "review-budget",
			})
		case budget.StatusAhead:
			out = append(out, model.Insight{
				Severity: model.SeverityMedium,
				Title:    "Spending ahead of pace",
				Message: fmt.Sprintf("Spending is %s%% of where it should be by now; at this rate the window ends at %s.",
					p.VarianceRatio.Mul(decimal.NewFromInt(100)).Round(0), p.Projection.StringFixed(2)),
				Action: "review-budget",
			})
		}
		if p.Status != budget.StatusOver && p.Projection.GreaterThan(p.ScaledBudget) && p.ScaledBudget.IsPositive() {
			out = append(out, model.Insight{
				Severity: model.SeverityMedium,
				Title:    "Projected to exceed budget",
				Message: fmt.Sprintf("The linear projection of %s lands above the %s budget.",
					p.Projection.StringFixed(2), p.ScaledBudget.StringFixed(2)),
				Action: "review-budget",
			})
		}
	}

	if n := countHigh(anomalies); n > 0 {
		out = append(out, model.Insight{
			Severity: model.SeverityHigh,
			Title:    "Unusual transactions",
			Message:  fmt.Sprintf("%d transaction(s) deviate sharply from their usual spending pattern.", n),
			Action:   "review-anomalies",
		})
	} else if len(anomalies) > 0 {
		out = append(out, model.Insight{
			Severity: model.SeverityLow,
			Title:    "A few transactions look off",
			Message:  fmt.Sprintf("%d transaction(s) are above their usual range.", len(anomalies)),
			Action:   "review-anomalies",
		})
	}

	switch {
	case m.Change.New:
		out = append(out, model.Insight{
			Severity: model.SeverityLow,
			Title:    "New spending this period",
			Message:  "The previous period had no net spending to compare against.",
		})
	case m.Change.Percent.GreaterThan(surgeThreshold):
		out = append(out, model.Insight{
			Severity: model.SeverityMedium,
			Title:    "Spending up sharply",
			Message:  fmt.Sprintf("Net spending is up %s%% on the previous period.", m.Change.Percent.Round(0)),
		})
	case m.Change.Percent.LessThan(dropThreshold):
		out = append(out, model.Insight{
			Severity: model.SeverityLow,
			Title:    "Spending down",
			Message:  fmt.Sprintf("Net spending is down %s%% on the previous period.", m.Change.Percent.Abs().Round(0)),
		})
	}

	if m.TopCategory.Share.GreaterThan(concentrationThreshold) {
		out = append(out, model.Insight{
			Severity: model.SeverityLow,
			Title:    "Concentrated spending",
			Message: fmt.Sprintf("%q accounts for %s%% of this window's spend.",
				m.TopCategory.Key, m.TopCategory.Share.Round(0)),
		})
	}

	rank(out)
	return out
}

var severityRank = map[model.Severity]int{
	model.SeverityHigh:   0,
	model.SeverityMedium: 1,
	model.SeverityLow:    2,
}

// rank orders by severity, keeping rule order within a severity so the
// output is stable for identical inputs.
func rank(insights []model.Insight) {
	sort.SliceStable(insights, func(i, j int) bool {
		return severityRank[insights[i].Severity] < severityRank[insights[j].Severity]
	})
}

func countHigh(anomalies []model.Anomaly) int {
	n := 0
	for _, a := range anomalies {
		if a.Severity == model.SeverityHigh {
			n++
		}
	}
	return n
}
