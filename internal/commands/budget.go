package commands

import (
	"fmt"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/drawar/expense-mate/internal/budget"
	"github.com/drawar/expense-mate/internal/model"
)

func newBudgetCommand() *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Read or update the stored budget",
	}
	budgetCmd.PersistentFlags().String("dir", ".", "data directory")
	budgetCmd.AddCommand(newBudgetGetCommand())
	budgetCmd.AddCommand(newBudgetSetCommand())
	return budgetCmd
}

func budgetStore(cmd *cobra.Command) (*budget.FileStore, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return nil, err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return budget.NewFileStore(filepath.Join(absDir, budgetFile)), nil
}

func newBudgetGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the stored budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := budgetStore(cmd)
			if err != nil {
				return err
			}
			cfg, found, err := store.Get()
			if err != nil {
				return err
			}
			if !found {
				cmd.Println("No budget set. Use: expense-mate budget set --amount <n>")
				return nil
			}
			cmd.Printf("%s %s per %s period\n", cfg.Amount.StringFixed(2), cfg.Currency, cfg.Period)
			return nil
		},
	}
}

func newBudgetSetCommand() *cobra.Command {
	var amount string
	var currency string
	var period string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a budget (last write wins)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := budgetStore(cmd)
			if err != nil {
				return err
			}
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amount, err)
			}
			cfg := model.BudgetConfig{
				Amount:   value,
				Currency: currency,
				Period:   model.PeriodType(period),
			}
			if err := store.Set(cfg); err != nil {
				return err
			}
			cmd.Printf("Budget set: %s %s per %s period\n", cfg.Amount.StringFixed(2), cfg.Currency, cfg.Period)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "budget amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&currency, "currency", "USD", "budget currency")
	cmd.Flags().StringVar(&period, "period", "monthly", "budget period: weekly or monthly")

	return cmd
}
