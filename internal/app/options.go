// Package app provides the core proctoring service.
package app

import (
	"github.com/okian/vigil/internal/adapters/sink"
	"github.com/okian/vigil/internal/auth"
	"github.com/okian/vigil/internal/domain/scoring"
	"github.com/okian/vigil/internal/monitor"
	"github.com/okian/vigil/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the event sink implementation.
func WithStore(store sink.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithAggregator sets a custom scoring aggregator.
func WithAggregator(a *scoring.Aggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.aggregator = a
		}
	}
}

// WithResolver sets the identity resolver for candidate names.
func WithResolver(r auth.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithProviderFactory sets the per-session signal provider source.
func WithProviderFactory(f ProviderFactory) Option {
	return func(s *Service) {
		s.providers = f
	}
}

// WithMonitorOptions forwards options to every session monitor.
func WithMonitorOptions(opts ...monitor.Option) Option {
	return func(s *Service) {
		s.monitorOpts = append(s.monitorOpts, opts...)
	}
}

// WithAlertConsumer registers a consumer notified once per emitted
// event. Multiple consumers may be registered.
func WithAlertConsumer(fn monitor.AlertFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.alertFns = append(s.alertFns, fn)
		}
	}
}
