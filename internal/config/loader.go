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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if VIGIL_CONFIG is set
//  3. env (prefix VIGIL_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("VIGIL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: VIGIL_ADDR, VIGIL_TICK_INTERVAL_MS, ...
	// Map env keys like VIGIL_TICK_INTERVAL_MS -> tick_interval_ms,
	// preserving underscores to match koanf tags on the struct.
	envProvider := env.Provider("VIGIL_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "vigil_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.TickIntervalMS <= 0 {
		return nil, fmt.Errorf("%w: tick_interval_ms must be positive", ErrInvalidConfig)
	}
	if cfg.ProviderTimeoutMS <= 0 || cfg.ProviderTimeoutMS >= cfg.TickIntervalMS {
		return nil, fmt.Errorf("%w: provider_timeout_ms must be positive and below tick_interval_ms", ErrInvalidConfig)
	}
	if cfg.MinObjectConfidence <= 0 || cfg.MinObjectConfidence > 1 {
		return nil, fmt.Errorf("%w: min_object_confidence must be in (0, 1]", ErrInvalidConfig)
	}
	return &cfg, nil
}
