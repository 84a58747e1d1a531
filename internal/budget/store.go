package budget

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/drawar/expense-mate/internal/model"
)

// Store is the settings-store capability the pacer reads budgets through.
// The engine never owns the storage mechanism; callers inject whichever
// implementation suits them.
type Store interface {
	// Get returns the stored budget. found is false when none has been
	// set yet.
	Get() (cfg model.BudgetConfig, found bool, err error)
	// Set replaces the stored budget, last write wins.
	Set(cfg model.BudgetConfig) error
}

// FileStore keeps the budget in a YAML file.
type FileStore struct {
	path string
}

// budgetFile is the on-disk shape; amounts travel as strings so decimal
// values survive YAML round-trips exactly.
type budgetFile struct {
	Amount   string `yaml:"amount"`
	Currency string `yaml:"currency"`
	Period   string `yaml:"period"`
}

// NewFileStore creates a store over path. The file is created on first
// Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get() (model.BudgetConfig, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.BudgetConfig{}, false, nil
	}
	if err != nil {
		return model.BudgetConfig{}, false, fmt.Errorf("reading budget: %w", err)
	}
	var f budgetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return model.BudgetConfig{}, false, fmt.Errorf("parsing budget: %w", err)
	}
	amount, err := decimal.NewFromString(f.Amount)
	if err != nil {
		return model.BudgetConfig{}, false, fmt.Errorf("parsing budget amount %q: %w", f.Amount, err)
	}
	return model.BudgetConfig{
		Amount:   amount,
		Currency: f.Currency,
		Period:   model.PeriodType(f.Period),
	}, true, nil
}

func (s *FileStore) Set(cfg model.BudgetConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(budgetFile{
		Amount:   cfg.Amount.String(),
		Currency: cfg.Currency,
		Period:   string(cfg.Period),
	})
	if err != nil {
		return fmt.Errorf("marshaling budget: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing budget: %w", err)
	}
	return nil
}
