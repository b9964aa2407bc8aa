package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "PROMOSIM_"
	envFileVar = "PROMOSIM_CONFIG"
)

// LoadOption adjusts a single Load call.
type LoadOption func(*loadOptions)

type loadOptions struct {
	file string
}

// WithFile reads path instead of the file named by PROMOSIM_CONFIG.
// An empty path leaves the environment variable in charge.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		if path != "" {
			o.file = path
		}
	}
}

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New())
//  2. a YAML file from WithFile, else from PROMOSIM_CONFIG
//  3. PROMOSIM_ environment variables
func Load(ctx context.Context, opts ...LoadOption) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := loadOptions{file: os.Getenv(envFileVar)}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")
	if o.file != "" {
		if err := k.Load(file.Provider(o.file), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, o.file, err)
		}
	}

	// PROMOSIM_SWEEP_RUNS -> sweep_runs; underscores survive to match the koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
