// Package commands wires the CLI around the analytics engine: scaffold a
// data directory, run the dashboard report, and manage the budget.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drawar/expense-mate/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "expense-mate",
		Short:   "Personal finance analytics over local snapshots",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newBudgetCommand())

	return rootCmd
}

const (
	configFile       = "expense-mate.yaml"
	budgetFile       = "budget.yaml"
	transactionsFile = "transactions.csv"
)
