// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// JWTSecret enables bearer-token auth when non-empty.
	JWTSecret string `koanf:"jwt_secret"`

	// DatabaseURL selects the PostgreSQL event sink; empty keeps the
	// in-memory sink.
	DatabaseURL string `koanf:"database_url"`

	// TickIntervalMS sets the monitoring cadence.
	TickIntervalMS int `koanf:"tick_interval_ms"`

	// ProviderTimeoutMS bounds per-tick provider calls.
	ProviderTimeoutMS int `koanf:"provider_timeout_ms"`

	// GazeRatio is the nose-offset to eye-distance threshold for the
	// looking-away signal.
	GazeRatio float64 `koanf:"gaze_ratio"`

	// MinObjectConfidence filters object detections.
	MinObjectConfidence float64 `koanf:"min_object_confidence"`

	// TargetObjects overrides the suspicious object label set.
	TargetObjects []string `koanf:"target_objects"`

	// Deductions overrides the alert-type deduction table.
	Deductions map[string]int `koanf:"deductions"`

	// DefaultDeduction is used for unrecognized alert types.
	DefaultDeduction int `koanf:"default_deduction"`

	// DemoScenario backs started sessions with a scripted detection
	// provider when non-empty. Without it, sessions only accept
	// externally reported events.
	DemoScenario string `koanf:"demo_scenario"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		TickIntervalMS:      500,
		ProviderTimeoutMS:   400,
		GazeRatio:           0.4,
		MinObjectConfidence: 0.65,
		DefaultDeduction:    10,
	}
}
