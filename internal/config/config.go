// Package config defines process configuration and its loading from
// defaults, an optional YAML file, and PROMOSIM_ environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/promosim/internal/domain/promotion"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DefaultMode is the skill-based strategy used when a request names none.
	DefaultMode string `koanf:"default_mode"`

	// Seed fixes the random source for every run. Zero means clock-seeded.
	Seed int64 `koanf:"seed"`

	// SweepRuns is the default number of runs per sweep.
	SweepRuns int `koanf:"sweep_runs"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		Addr:        ":9080",
		DefaultMode: string(promotion.ModeFlat),
		Seed:        0,
		SweepRuns:   100,
	}
}

// Validate reports the first invalid field as a *FieldError.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return &FieldError{Field: "addr", Reason: "must not be empty"}
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return &FieldError{Field: "log_format", Reason: fmt.Sprintf("%q must be text or json", c.LogFormat)}
	}
	if _, err := promotion.ParseMode(c.DefaultMode); err != nil {
		return &FieldError{Field: "default_mode", Reason: err.Error()}
	}
	if c.SweepRuns <= 0 {
		return &FieldError{Field: "sweep_runs", Reason: fmt.Sprintf("must be positive, got %d", c.SweepRuns)}
	}
	return nil
}
