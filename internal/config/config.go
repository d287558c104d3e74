// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/evscout/evscout/internal/output"
)

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes. Environment
// variables in ${VAR} form are substituted before parsing.
func LoadFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(reader io.Reader) (*Config, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %v", err)
	}

	return LoadFromBytes(data)
}

// Default returns a ready-to-run configuration for the given catalog,
// writing JSON lines next to the checkpoint file.
func Default(catalogPath string) *Config {
	cfg := &Config{
		CatalogPath: catalogPath,
		Output: output.Config{
			Format: output.FormatJSONLines,
			File:   "vehicles.jsonl",
		},
	}
	applyDefaults(cfg)
	return cfg
}

// SaveToFile writes the configuration as YAML.
func SaveToFile(cfg *Config, filename string) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %v", err)
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %v", err)
	}

	return nil
}

// applyDefaults fills every unset knob.
func applyDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = "evscout"
	}

	if cfg.Checkpoint.Path == "" {
		cfg.Checkpoint.Path = "scrape_checkpoint.json"
	}

	s := &cfg.Scraping
	if s.RequestTimeout == 0 {
		s.RequestTimeout = 30 * time.Second
	}
	if s.RetryAttempts == 0 {
		s.RetryAttempts = 3
	}
	if s.RetryDelay == 0 {
		s.RetryDelay = 1 * time.Second
	}
	if s.RateLimit == 0 {
		s.RateLimit = 0.5
	}
	if s.RateBurst == 0 {
		s.RateBurst = 1
	}
	if s.MinDelay == 0 {
		s.MinDelay = 1 * time.Second
	}
	if s.MaxDelay == 0 {
		s.MaxDelay = 3 * time.Second
	}
	if s.MaxPages == 0 {
		s.MaxPages = 5
	}

	if cfg.Browser != nil {
		if cfg.Browser.Timeout == 0 {
			cfg.Browser.Timeout = 60 * time.Second
		}
		if cfg.Browser.WaitDelay == 0 {
			cfg.Browser.WaitDelay = 2 * time.Second
		}
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = output.FormatJSONLines
	}
	if cfg.Output.File == "" && fileBacked(cfg.Output.Format) {
		cfg.Output.File = "vehicles." + defaultExtension(cfg.Output.Format)
	}
	if cfg.Output.BatchSize == 0 {
		cfg.Output.BatchSize = 500
	}
	if cfg.Output.OnConflict == "" {
		cfg.Output.OnConflict = output.ConflictIgnore
	}

	if cfg.Monitoring.Enabled && cfg.Monitoring.ListenAddr == "" {
		cfg.Monitoring.ListenAddr = ":9090"
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func fileBacked(f output.Format) bool {
	switch f {
	case output.FormatJSON, output.FormatJSONLines, output.FormatCSV,
		output.FormatSQLite, output.FormatExcel:
		return true
	}
	return false
}

func defaultExtension(f output.Format) string {
	switch f {
	case output.FormatJSON:
		return "json"
	case output.FormatJSONLines:
		return "jsonl"
	case output.FormatCSV:
		return "csv"
	case output.FormatSQLite:
		return "db"
	case output.FormatExcel:
		return "xlsx"
	}
	return "out"
}
