package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/drawar/expense-mate/internal/config"
	"github.com/drawar/expense-mate/internal/importer"
)

func newInitCommand() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize an expense-mate data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(cmd, absDir, currency)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "USD", "display currency")

	return cmd
}

func runInit(cmd *cobra.Command, dir, currency string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfgPath := filepath.Join(dir, configFile)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", configFile, dir)
	}
	if err := config.Save(cfgPath, config.Default(currency)); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Seed an empty snapshot so report works immediately.
	txPath := filepath.Join(dir, transactionsFile)
	if _, err := os.Stat(txPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(txPath, []byte(importer.Header+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing transactions file: %w", err)
		}
	}

	cmd.Printf("Initialized expense-mate directory at %s\n", dir)
	return nil
}
