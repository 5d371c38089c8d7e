package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level gharkhata.yaml configuration.
type Config struct {
	Household HouseholdConfig `yaml:"household"`
	Owner     OwnerConfig     `yaml:"owner"`
	Store     StoreConfig     `yaml:"store"`
	Currency  string          `yaml:"currency"`
}

// HouseholdConfig identifies the local household.
type HouseholdConfig struct {
	Name string `yaml:"name"`
	// ID is filled in after the first init provisions the household.
	ID string `yaml:"id,omitempty"`
}

// OwnerConfig is the identity the CLI logs in as.
type OwnerConfig struct {
	UserID string `yaml:"user_id"`
	Name   string `yaml:"name"`
}

// StoreConfig selects and locates the document store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "sqlite" or "memory"
	Path    string `yaml:"path"`    // sqlite file path
}

// Load reads a gharkhata.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
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

// Default returns a Config with sensible defaults for a new household.
func Default(householdName, ownerName string) *Config {
	return &Config{
		Household: HouseholdConfig{Name: householdName},
		Owner: OwnerConfig{
			UserID: "owner",
			Name:   ownerName,
		},
		Store: StoreConfig{
			Backend: "sqlite",
			Path:    "gharkhata.db",
		},
		Currency: "INR",
	}
}
