package compass

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the advisor's configuration, loaded once per run from a TOML
// file. Every threshold the core consumes is injected from here; nothing is
// resolved implicitly from the process environment.
type Config struct {
	Watchlist      []string `toml:"watchlist"`
	MonthlyBudget  float64  `toml:"monthly_budget"`
	TransactionFee float64  `toml:"transaction_fee"`
	MaxPositions   int      `toml:"max_positions"`

	MinHoldDays         int     `toml:"min_hold_days"`
	StopLossPercent     float64 `toml:"stop_loss_percent"`
	ProfitTargetPercent float64 `toml:"profit_target_percent"`

	// Validator policy, historically hard-coded at $50 and $10.
	ProceedsTolerance float64 `toml:"proceeds_tolerance"`
	CashBuffer        float64 `toml:"cash_buffer"`

	Model string `toml:"model"` // recommendation model name

	// Instruments maps watched tickers to ls-tc instrument ids for the
	// intraday quote provider. Tickers without an id simply get no quote.
	Instruments map[string]int `toml:"instruments"`
}

// DefaultConfig returns a config with the historical defaults filled in.
func DefaultConfig() Config {
	return Config{
		MonthlyBudget:       500,
		TransactionFee:      10,
		MaxPositions:        5,
		MinHoldDays:         30,
		StopLossPercent:     -10,
		ProfitTargetPercent: 20,
		ProceedsTolerance:   50,
		CashBuffer:          10,
		Model:               "gemini-2.0-flash",
	}
}

// LoadConfig reads and validates a TOML config file. Missing optional
// fields fall back to defaults. The returned warnings flag suspicious but
// legal values; the error is fatal.
func LoadConfig(path string) (Config, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nil, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, nil, fmt.Errorf("could not decode config file %q: %w", path, err)
	}
	warnings, err := cfg.Validate()
	if err != nil {
		return Config{}, warnings, err
	}
	return cfg, warnings, nil
}

// SaveConfig writes the config as TOML, used by `compass init`.
func SaveConfig(path string, cfg Config) error {
	raw, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("could not encode config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("could not write config file %q: %w", path, err)
	}
	return nil
}

// Validate checks the config. It returns non-fatal warnings for suspicious
// values and a fatal error when the config is unusable.
func (c Config) Validate() (warnings []string, err error) {
	var errs []error

	if len(c.Watchlist) == 0 {
		errs = append(errs, errors.New("watchlist cannot be empty"))
	}
	for _, ticker := range c.Watchlist {
		if !isTicker(ticker) {
			errs = append(errs, fmt.Errorf("invalid ticker %q in watchlist (must be uppercase letters only)", ticker))
		}
	}

	if c.MonthlyBudget <= 0 {
		errs = append(errs, errors.New("monthly_budget must be positive"))
	} else if c.MonthlyBudget > 1_000_000 {
		warnings = append(warnings, "monthly_budget is very high (>$1M)")
	}
	if c.TransactionFee < 0 {
		errs = append(errs, errors.New("transaction_fee cannot be negative"))
	}
	if c.MaxPositions <= 0 {
		errs = append(errs, errors.New("max_positions must be positive"))
	} else if c.MaxPositions > 20 {
		warnings = append(warnings, "max_positions is high (>20), consider diversification limits")
	}
	if c.MinHoldDays <= 0 {
		errs = append(errs, errors.New("min_hold_days must be positive"))
	}
	if c.StopLossPercent > 0 {
		warnings = append(warnings, "stop_loss_percent should be negative (e.g. -10)")
	}
	if c.ProfitTargetPercent < 0 {
		warnings = append(warnings, "profit_target_percent should be positive (e.g. 20)")
	}
	if c.ProceedsTolerance < 0 {
		errs = append(errs, errors.New("proceeds_tolerance cannot be negative"))
	}
	if c.CashBuffer < 0 {
		errs = append(errs, errors.New("cash_buffer cannot be negative"))
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("config validation failed: %w", errors.Join(errs...))
	}
	return warnings, nil
}

// Thresholds returns the exit thresholds the evaluator consumes.
func (c Config) Thresholds() ExitThresholds {
	return ExitThresholds{
		StopLossPercent:     c.StopLossPercent,
		ProfitTargetPercent: c.ProfitTargetPercent,
	}
}

// Policy returns the validator policy the config carries.
func (c Config) Policy() ValidationPolicy {
	return ValidationPolicy{
		ProceedsTolerance: USD(c.ProceedsTolerance),
		CashBuffer:        USD(c.CashBuffer),
	}
}

// Fee returns the per-trade transaction fee as money.
func (c Config) Fee() Money { return USD(c.TransactionFee) }
