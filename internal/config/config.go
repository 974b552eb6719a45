package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// BackendConfig describes one structured-extraction backend. Loaded once at
// startup and read-only afterwards, so descriptors can be shared across
// concurrent rounds without locking.
type BackendConfig struct {
	ID        string `toml:"id"`
	Provider  string `toml:"provider"`
	ModelName string `toml:"model_name"`
	// APIKey is either the key itself or the name of an environment
	// variable holding it; ResolveAPIKey prefers the env value.
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// ResolveAPIKey resolves the configured key reference. If the value names a
// set environment variable the env value wins; otherwise the literal is used.
func (b BackendConfig) ResolveAPIKey() string {
	if b.APIKey == "" {
		return ""
	}
	if env := os.Getenv(b.APIKey); env != "" {
		return env
	}
	return b.APIKey
}

// ThresholdsConfig holds the numeric-closeness tolerances for consensus.
type ThresholdsConfig struct {
	NumericRelativeTol float64 `toml:"numeric_relative_tol"`
	NumericAbsTol      float64 `toml:"numeric_abs_tol"`
}

type PathsConfig struct {
	DocsDir    string `toml:"docs_dir"`
	OutDir     string `toml:"out_dir"`
	SchemaFile string `toml:"schema_file"`
	PromptFile string `toml:"prompt_file"`
	LedgerPath string `toml:"ledger_path"`
}

type ConcurrencyConfig struct {
	Documents int `toml:"documents"`
}

type Config struct {
	Backends    []BackendConfig   `toml:"backends"`
	Thresholds  ThresholdsConfig  `toml:"thresholds"`
	Paths       PathsConfig       `toml:"paths"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
}

// BackendIDs returns the configured backend ids in declaration order.
// Round fan-out and consensus both follow this order.
func (c *Config) BackendIDs() []string {
	ids := make([]string, len(c.Backends))
	for i, b := range c.Backends {
		ids[i] = b.ID
	}
	return ids
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Thresholds.NumericRelativeTol == 0 {
		cfg.Thresholds.NumericRelativeTol = 0.01
	}
	if cfg.Thresholds.NumericAbsTol == 0 {
		cfg.Thresholds.NumericAbsTol = 1.0
	}
	if cfg.Concurrency.Documents <= 0 {
		cfg.Concurrency.Documents = 4
	}
	if cfg.Paths.OutDir == "" {
		cfg.Paths.OutDir = "data/outputs/extraction"
	}
	if cfg.Paths.LedgerPath == "" {
		cfg.Paths.LedgerPath = "quorum.db"
	}
}
