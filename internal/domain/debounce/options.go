// Package debounce converts noisy per-tick condition signals into a
// sparse alert stream.
package debounce

import (
	"time"

	"github.com/okian/vigil/internal/domain/model"
)

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithSustain overrides the sustain duration for one alert type.
func WithSustain(at model.AlertType, d time.Duration) Option {
	return func(t *Tracker) {
		if d >= 0 {
			t.sustain[at] = d
		}
	}
}

// WithCooldown overrides the cooldown duration for one alert type.
func WithCooldown(at model.AlertType, d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.cooldown[at] = d
		}
	}
}
