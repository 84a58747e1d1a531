// Package config reads and writes expense-mate.yaml, the one file that
// carries the dashboard's settings: display currency, exchange rates and
// the engine tuning knobs.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/drawar/expense-mate/internal/anomaly"
	"github.com/drawar/expense-mate/internal/engine"
	"github.com/drawar/expense-mate/internal/hierarchy"
	"github.com/drawar/expense-mate/internal/model"
	"github.com/drawar/expense-mate/internal/taxonomy"
)

// Config is the top-level expense-mate.yaml structure. Amounts and rates
// travel as strings so decimal values round-trip exactly.
type Config struct {
	DisplayCurrency string            `yaml:"display_currency"`
	BaseCurrency    string            `yaml:"base_currency"`
	Rates           []Rate            `yaml:"rates,omitempty"`
	Hierarchy       HierarchyConfig   `yaml:"hierarchy"`
	Anomaly         AnomalyConfig     `yaml:"anomaly"`
	Categories      map[string]string `yaml:"categories,omitempty"` // extra leaf -> parent id
}

// Rate is one exchange-rate pair, e.g. pair "EUR/USD" rate "1.10".
type Rate struct {
	Pair string `yaml:"pair"`
	Rate string `yaml:"rate"`
}

// HierarchyConfig tunes the category tree.
type HierarchyConfig struct {
	OtherCutoff   string `yaml:"other_cutoff"`  // percent share, e.g. "5"
	MerchantLevel bool   `yaml:"merchant_level"`
}

// AnomalyConfig tunes the outlier detector.
type AnomalyConfig struct {
	Floor string `yaml:"floor"` // display-currency absolute minimum
}

// Load reads an expense-mate.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DisplayCurrency == "" {
		return nil, fmt.Errorf("config: display_currency is required")
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new setup.
func Default(displayCurrency string) *Config {
	return &Config{
		DisplayCurrency: displayCurrency,
		BaseCurrency:    displayCurrency,
		Hierarchy:       HierarchyConfig{OtherCutoff: "5", MerchantLevel: true},
		Anomaly:         AnomalyConfig{Floor: "25"},
	}
}

// RateTable converts the configured pairs into the engine's rate table.
// Unparseable rates are reported, not skipped silently.
func (c *Config) RateTable() (model.RateTable, error) {
	table := model.RateTable{
		Base:  c.BaseCurrency,
		Pairs: make(map[string]decimal.Decimal, len(c.Rates)),
	}
	for _, r := range c.Rates {
		rate, err := decimal.NewFromString(r.Rate)
		if err != nil {
			return model.RateTable{}, fmt.Errorf("rate for %s: %w", r.Pair, err)
		}
		table.Pairs[r.Pair] = rate
	}
	return table, nil
}

// EngineConfig maps the tuning sections onto the engine's options,
// falling back to each stage's defaults for absent values.
func (c *Config) EngineConfig() (engine.Config, error) {
	out := engine.DefaultConfig()
	if c.Hierarchy.OtherCutoff != "" {
		cutoff, err := decimal.NewFromString(c.Hierarchy.OtherCutoff)
		if err != nil {
			return engine.Config{}, fmt.Errorf("hierarchy.other_cutoff: %w", err)
		}
		out.Hierarchy = hierarchy.Options{OtherCutoff: cutoff, MerchantLevel: c.Hierarchy.MerchantLevel}
	}
	if c.Anomaly.Floor != "" {
		floor, err := decimal.NewFromString(c.Anomaly.Floor)
		if err != nil {
			return engine.Config{}, fmt.Errorf("anomaly.floor: %w", err)
		}
		opts := anomaly.DefaultOptions()
		opts.Floor = floor
		out.Anomaly = opts
	}
	return out, nil
}

// Taxonomy builds the category table with any configured extensions.
func (c *Config) Taxonomy() taxonomy.Table {
	return taxonomy.New(c.Categories)
}
