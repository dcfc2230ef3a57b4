// Package monitor drives the per-session detection loop.
package monitor

import (
	"time"

	"github.com/okian/vigil/internal/domain/classify"
	"github.com/okian/vigil/internal/domain/debounce"
	"github.com/okian/vigil/pkg/logger"
)

// Option applies a configuration option to the Monitor.
type Option func(*Monitor)

// WithTickInterval sets the monitoring cadence.
func WithTickInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}

// WithProviderTimeout bounds each tick's provider calls.
func WithProviderTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.providerTimeout = d
		}
	}
}

// WithClassifier sets a custom classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(m *Monitor) {
		if c != nil {
			m.classifier = c
		}
	}
}

// WithTrackerOptions forwards options to the session's debounce tracker.
func WithTrackerOptions(opts ...debounce.Option) Option {
	return func(m *Monitor) {
		m.trackerOpts = append(m.trackerOpts, opts...)
	}
}

// WithAlertFunc sets the consumer notified once per emitted event.
func WithAlertFunc(fn AlertFunc) Option {
	return func(m *Monitor) {
		m.onAlert = fn
	}
}

// WithLogger sets a custom logger for the monitor.
func WithLogger(l logger.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}
