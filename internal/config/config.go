package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/minibooks-dev/minibooks/internal/logging"
)

// FileName is the workspace configuration file.
const FileName = "minibooks.yaml"

// Config represents the top-level minibooks.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Database DatabaseConfig `yaml:"database"`
	Fiscal   FiscalConfig   `yaml:"fiscal"`
	Logging  logging.Config `yaml:"logging"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name"`
	EntityType string `yaml:"entity_type"`
}

// DatabaseConfig locates the ledger database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "01-01"
}

// Load reads a minibooks.yaml file from disk. MINIBOOKS_DB overrides the
// configured database path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if db := os.Getenv("MINIBOOKS_DB"); db != "" {
		cfg.Database.Path = db
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

// Default returns a Config with sensible defaults for a new ledger.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
		},
		Database: DatabaseConfig{
			Path: "minibooks.db",
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Logging: logging.DefaultConfig(),
	}
}
