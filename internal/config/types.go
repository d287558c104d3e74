// internal/config/types.go

// Package config provides the run configuration for evscout. A config
// file names the dealership catalog, tunes the fetch layer, and selects
// the output backend. Every knob has a default so the minimal config is
// just the catalog path.
package config

import (
	"time"

	"github.com/evscout/evscout/internal/output"
)

// Config is the top-level run configuration.
type Config struct {
	// Name identifies this run in logs and reports
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// CatalogPath points at the dealership CSV catalog
	CatalogPath string `yaml:"catalog" json:"catalog"`

	// Checkpoint controls crash-resume state
	Checkpoint CheckpointConfig `yaml:"checkpoint,omitempty" json:"checkpoint,omitempty"`

	// Scraping tunes the HTTP fetch layer
	Scraping ScrapingConfig `yaml:"scraping,omitempty" json:"scraping,omitempty"`

	// Browser enables rendering JavaScript-heavy inventory pages
	Browser *BrowserConfig `yaml:"browser,omitempty" json:"browser,omitempty"`

	// Validation controls record acceptance
	Validation ValidationConfig `yaml:"validation,omitempty" json:"validation,omitempty"`

	// Dedupe controls duplicate collapsing
	Dedupe DedupeConfig `yaml:"dedupe,omitempty" json:"dedupe,omitempty"`

	// Output selects and parameterizes the sink
	Output output.Config `yaml:"output" json:"output"`

	// Monitoring exposes Prometheus metrics and health endpoints
	Monitoring MonitoringConfig `yaml:"monitoring,omitempty" json:"monitoring,omitempty"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
}

// CheckpointConfig controls resume state persistence.
type CheckpointConfig struct {
	// Path of the checkpoint file
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// Disabled turns checkpointing off entirely
	Disabled bool `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// ScrapingConfig tunes the fetch layer.
type ScrapingConfig struct {
	// RequestTimeout bounds a single HTTP request
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty" json:"request_timeout,omitempty"`

	// RetryAttempts is the number of retries after a transient failure
	RetryAttempts int `yaml:"retry_attempts,omitempty" json:"retry_attempts,omitempty"`

	// RetryDelay is the base backoff delay, doubled per attempt
	RetryDelay time.Duration `yaml:"retry_delay,omitempty" json:"retry_delay,omitempty"`

	// RateLimit is the sustained requests-per-second ceiling
	RateLimit float64 `yaml:"rate_limit,omitempty" json:"rate_limit,omitempty"`

	// RateBurst allows short bursts above RateLimit
	RateBurst int `yaml:"rate_burst,omitempty" json:"rate_burst,omitempty"`

	// MinDelay and MaxDelay bound the random politeness pause
	MinDelay time.Duration `yaml:"min_delay,omitempty" json:"min_delay,omitempty"`
	MaxDelay time.Duration `yaml:"max_delay,omitempty" json:"max_delay,omitempty"`

	// UserAgents overrides the built-in rotation pool
	UserAgents []string `yaml:"user_agents,omitempty" json:"user_agents,omitempty"`

	// MaxPages caps listing pagination per source
	MaxPages int `yaml:"max_pages,omitempty" json:"max_pages,omitempty"`

	// MaxListings caps detail pages fetched per source, 0 means no cap
	MaxListings int `yaml:"max_listings,omitempty" json:"max_listings,omitempty"`
}

// BrowserConfig enables headless Chrome rendering.
type BrowserConfig struct {
	// Enabled switches detail fetches to the browser
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Headless runs Chrome without a window
	Headless bool `yaml:"headless,omitempty" json:"headless,omitempty"`

	// Timeout bounds a single page render
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// WaitDelay lets late scripts settle before the DOM snapshot
	WaitDelay time.Duration `yaml:"wait_delay,omitempty" json:"wait_delay,omitempty"`

	// UserAgent overrides Chrome's default
	UserAgent string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`

	// DisableImages skips image loading
	DisableImages bool `yaml:"disable_images,omitempty" json:"disable_images,omitempty"`
}

// ValidationConfig controls record acceptance.
type ValidationConfig struct {
	// Strict rejects records that only carry warnings
	Strict bool `yaml:"strict,omitempty" json:"strict,omitempty"`
}

// DedupeConfig controls duplicate collapsing.
type DedupeConfig struct {
	// PreferLatest keeps the newest duplicate instead of the first seen
	PreferLatest bool `yaml:"prefer_latest,omitempty" json:"prefer_latest,omitempty"`
}

// MonitoringConfig exposes operational endpoints.
type MonitoringConfig struct {
	// Enabled starts the metrics server for the run
	Enabled bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// ListenAddr is the host:port for /metrics and /healthz
	ListenAddr string `yaml:"listen_addr,omitempty" json:"listen_addr,omitempty"`
}
