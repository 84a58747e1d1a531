package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/drawar/expense-mate/internal/budget"
	"github.com/drawar/expense-mate/internal/config"
	"github.com/drawar/expense-mate/internal/engine"
	"github.com/drawar/expense-mate/internal/importer"
	"github.com/drawar/expense-mate/internal/log"
	"github.com/drawar/expense-mate/internal/model"
	"github.com/drawar/expense-mate/internal/timewindow"
)

func newReportCommand() *cobra.Command {
	var dir string
	var timeframe string
	var displayCurrency string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the dashboard report over the local snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runReport(cmd, absDir, timewindow.Timeframe(timeframe), displayCurrency, time.Now())
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "data directory")
	cmd.Flags().StringVar(&timeframe, "timeframe", string(timewindow.ThisMonth),
		"one of: "+timeframeList())
	cmd.Flags().StringVar(&displayCurrency, "currency", "", "display currency (default: from config)")

	return cmd
}

func timeframeList() string {
	var names []string
	for _, tf := range timewindow.All() {
		names = append(names, string(tf))
	}
	return strings.Join(names, ", ")
}

func runReport(cmd *cobra.Command, dir string, tf timewindow.Timeframe, displayCurrency string, now time.Time) error {
	cfg, err := config.Load(filepath.Join(dir, configFile))
	if err != nil {
		return err
	}
	if displayCurrency == "" {
		displayCurrency = cfg.DisplayCurrency
	}

	f, err := os.Open(filepath.Join(dir, transactionsFile))
	if err != nil {
		return fmt.Errorf("opening transactions: %w", err)
	}
	defer f.Close()
	txs, err := importer.ReadTransactions(f)
	if err != nil {
		return err
	}

	rates, err := cfg.RateTable()
	if err != nil {
		return err
	}
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}

	eng := engine.New(engineCfg, budget.NewFileStore(filepath.Join(dir, budgetFile)), log.New("engine"))
	rep, err := eng.Analyze(engine.Snapshot{
		Transactions:    txs,
		Rates:           rates,
		Taxonomy:        cfg.Taxonomy(),
		Timeframe:       tf,
		DisplayCurrency: displayCurrency,
		Now:             now,
	})
	if err != nil {
		return err
	}

	render(cmd, rep, displayCurrency)
	return nil
}

func render(cmd *cobra.Command, rep engine.Report, cur string) {
	bold := color.New(color.Bold).SprintFunc()

	cmd.Printf("%s  %s to %s\n\n", bold("Window"),
		rep.Window.Start.Format("2006-01-02"),
		rep.Window.End.AddDate(0, 0, -1).Format("2006-01-02"))

	m := rep.Metrics
	cmd.Printf("Net expenses      %s %s\n", m.NetExpenses.StringFixed(2), cur)
	cmd.Printf("Gross / reimbursed %s / %s\n", m.TotalExpenses.StringFixed(2), m.TotalReimbursed.StringFixed(2))
	cmd.Printf("Transactions      %d (avg %s)\n", m.TransactionCount, m.AverageAmount.StringFixed(2))
	cmd.Printf("vs previous       %s\n", changeLabel(m.Change))
	if m.TopMerchant.Key != "" {
		cmd.Printf("Top merchant      %s (%s)\n", m.TopMerchant.Key, m.TopMerchant.Amount.StringFixed(2))
	}
	if m.TopCategory.Key != "" {
		cmd.Printf("Top category      %s (%s%%)\n", m.TopCategory.Key, m.TopCategory.Share.StringFixed(1))
	}
	if m.TopPaymentMethod.Key != "" {
		cmd.Printf("Top instrument    %s (%d uses)\n", m.TopPaymentMethod.Key, m.TopPaymentMethod.Count)
	}
	if m.RewardPoints != 0 {
		cmd.Printf("Reward points     %d\n", m.RewardPoints)
	}

	if rep.HasBudget {
		cmd.Printf("\n%s  %s of %s expected, %s scaled budget\n", bold("Budget"),
			rep.Pace.ExpectedSpend.StringFixed(2), rep.Pace.ScaledBudget.StringFixed(2),
			statusLabel(rep.Pace.Status))
		cmd.Printf("Projection        %s %s\n", rep.Pace.Projection.StringFixed(2), cur)
	}

	if len(rep.Tree) > 0 {
		cmd.Printf("\n%s\n", bold("Categories"))
		renderTree(cmd, rep.Tree, 0)
	}

	if len(rep.Anomalies) > 0 {
		cmd.Printf("\n%s\n", bold("Anomalies"))
		for _, a := range rep.Anomalies {
			cmd.Printf("  %s %s  %s (%s)\n", severityLabel(a.Severity), a.Amount.StringFixed(2), a.Reason, a.TransactionID)
		}
	}

	if len(rep.Insights) > 0 {
		cmd.Printf("\n%s\n", bold("Insights"))
		for _, ins := range rep.Insights {
			cmd.Printf("  %s %s: %s\n", severityLabel(ins.Severity), ins.Title, ins.Message)
		}
	}

	if rep.Skipped > 0 {
		cmd.Printf("\n%d malformed transaction(s) skipped\n", rep.Skipped)
	}
}

func renderTree(cmd *cobra.Command, nodes []model.CategoryNode, depth int) {
	indent := strings.Repeat("  ", depth+1)
	for _, n := range nodes {
		cmd.Printf("%s%-24s %12s  %5s%%\n", indent, n.Name, n.Amount.StringFixed(2), n.Percentage.StringFixed(1))
		renderTree(cmd, n.Children, depth+1)
	}
}

func changeLabel(c model.Change) string {
	if c.New {
		return "new (no previous-period spend)"
	}
	return c.Percent.StringFixed(1) + "%"
}

func statusLabel(s budget.Status) string {
	switch s {
	case budget.StatusOver:
		return color.New(color.FgRed, color.Bold).Sprint("OVER BUDGET")
	case budget.StatusAhead:
		return color.New(color.FgYellow).Sprint("ahead of pace")
	default:
		return color.New(color.FgGreen).Sprint("on track")
	}
}

func severityLabel(s model.Severity) string {
	switch s {
	case model.SeverityHigh:
		return color.New(color.FgRed).Sprint("[high]")
	case model.SeverityMedium:
		return color.New(color.FgYellow).Sprint("[med] ")
	default:
		return color.New(color.FgCyan).Sprint("[low] ")
	}
}
