package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"scrum-cards/internal/helpers"
)

// Storage backends
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendKeyring  = "keyring"
)

// Config represents the application configuration
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Tracker TrackerConfig `yaml:"tracker"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects where the settings record is kept
type StorageConfig struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`
	DSN       string `yaml:"dsn"`
	Namespace string `yaml:"namespace"`
}

// TrackerConfig represents tracker HTTP configuration
type TrackerConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:   BackendFile,
			Path:      "scrum-cards-settings.json",
			Namespace: "scrum-cards",
		},
		Tracker: TrackerConfig{
			TimeoutSeconds: 30,
		},
		Log: LogConfig{
			Level: "warn",
			File:  "scrum-cards.log",
		},
	}
}

// LoadConfig loads configuration from a YAML file. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	rules := []helpers.ValidateRule{
		helpers.ValidateOneOf(c.Storage.Backend, "storage.backend",
			BackendFile, BackendSQLite, BackendPostgres, BackendKeyring),
		helpers.ValidateStringFieldNotEmpty(&c.Storage.Namespace, "storage.namespace"),
	}

	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
		rules = append(rules, helpers.ValidateStringFieldNotEmpty(&c.Storage.Path, "storage.path"))
	case BackendPostgres:
		rules = append(rules, helpers.ValidateStringFieldNotEmpty(&c.Storage.DSN, "storage.dsn"))
	}

	if err := helpers.Validate(rules); err != nil {
		return err
	}

	if c.Tracker.TimeoutSeconds <= 0 {
		return fmt.Errorf("tracker timeout must be positive, got %d", c.Tracker.TimeoutSeconds)
	}

	return nil
}
