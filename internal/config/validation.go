// internal/config/validation.go
package config

import (
	"fmt"
	"strings"
)

// ValidationError describes a single rejected configuration field.
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []ValidationError

	if c.CatalogPath == "" {
		errs = append(errs, ValidationError{
			Field:   "catalog",
			Message: "dealership catalog path is required",
		})
	}

	s := c.Scraping
	if s.RetryAttempts < 0 {
		errs = append(errs, ValidationError{
			Field:   "scraping.retry_attempts",
			Value:   fmt.Sprintf("%d", s.RetryAttempts),
			Message: "retry attempts cannot be negative",
		})
	}
	if s.RateLimit < 0 {
		errs = append(errs, ValidationError{
			Field:   "scraping.rate_limit",
			Value:   fmt.Sprintf("%g", s.RateLimit),
			Message: "rate limit cannot be negative",
		})
	}
	if s.MinDelay > s.MaxDelay {
		errs = append(errs, ValidationError{
			Field:   "scraping.min_delay",
			Value:   s.MinDelay.String(),
			Message: fmt.Sprintf("min delay exceeds max delay %s", s.MaxDelay),
		})
	}
	if s.MaxPages < 0 {
		errs = append(errs, ValidationError{
			Field:   "scraping.max_pages",
			Value:   fmt.Sprintf("%d", s.MaxPages),
			Message: "page cap cannot be negative",
		})
	}
	if s.MaxListings < 0 {
		errs = append(errs, ValidationError{
			Field:   "scraping.max_listings",
			Value:   fmt.Sprintf("%d", s.MaxListings),
			Message: "listing cap cannot be negative",
		})
	}

	if !c.Output.Format.IsValid() {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Value:   string(c.Output.Format),
			Message: "unsupported output format",
		})
	}
	switch c.Output.OnConflict {
	case "", "ignore", "replace", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "output.on_conflict",
			Value:   string(c.Output.OnConflict),
			Message: "must be one of ignore, replace, error",
		})
	}
	if c.Output.BatchSize < 0 {
		errs = append(errs, ValidationError{
			Field:   "output.batch_size",
			Value:   fmt.Sprintf("%d", c.Output.BatchSize),
			Message: "batch size cannot be negative",
		})
	}

	if c.LogLevel != "" && !logLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Value:   c.LogLevel,
			Message: "must be one of debug, info, warn, error",
		})
	}

	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("configuration has %d error(s): %s", len(errs), strings.Join(msgs, "; "))
}
