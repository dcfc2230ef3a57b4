// Package app provides the core proctoring service that implements
// the dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/vigil/internal/adapters/provider"
	"github.com/okian/vigil/internal/adapters/sink"
	"github.com/okian/vigil/internal/auth"
	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/internal/domain/scoring"
	"github.com/okian/vigil/internal/domain/types"
	"github.com/okian/vigil/internal/monitor"
	"github.com/okian/vigil/pkg/logger"
	"github.com/okian/vigil/pkg/metrics"
)

// activeWindow is how recently a session must have logged an event to
// count as active in its stats.
const activeWindow = 30 * time.Second

// recentEventLimit caps the recent-events list in session stats.
const recentEventLimit = 10

// ProviderFactory yields the signal providers for a session. The
// capture layer owns frames and inference; the engine only consumes
// the provider contracts.
type ProviderFactory func(sessionID string) (provider.FaceProvider, provider.ObjectProvider, error)

// Sentinel kinds for service errors.
var (
	ErrNoProviders    = errors.New("no provider factory configured")
	ErrInvalidSession = errors.New("invalid session id")
	ErrNotStarted     = errors.New("service not started")
)

// Service implements the engine surface: monitoring control, report
// computation, event logging and alert fan-out.
type Service struct {
	mu sync.Mutex

	// Core components
	store      sink.Store
	aggregator *scoring.Aggregator
	resolver   auth.Resolver
	providers  ProviderFactory
	monitors   map[string]*monitor.Monitor

	// Configuration
	monitorOpts []monitor.Option

	// Alert fan-out
	alertFns []monitor.AlertFunc

	// State. runCtx outlives any single request; monitors run under it
	// so their loops are bound to the service, not to the caller.
	started bool
	runCtx  context.Context
	cancel  context.CancelFunc

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		monitors: make(map[string]*monitor.Monitor),
		resolver: auth.ClaimsResolver{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}
	if s.store == nil {
		s.store = sink.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory event sink")
	}
	if s.aggregator == nil {
		s.aggregator = scoring.NewAggregator()
	}

	s.runCtx, s.cancel = context.WithCancel(ctx)
	s.started = true
	s.logger.Info(ctx, "proctoring service started")
	return nil
}

// Stop shuts down all session monitors.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	if s.cancel != nil {
		s.cancel()
	}
	monitors := make([]*monitor.Monitor, 0, len(s.monitors))
	for _, m := range s.monitors {
		monitors = append(monitors, m)
	}
	s.monitors = make(map[string]*monitor.Monitor)
	s.mu.Unlock()

	for _, m := range monitors {
		m.Stop()
	}
	metrics.UpdateActiveSessions(0)

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.logger.Info(context.Background(), "proctoring service stopped")
}

// StartMonitoring begins the detection loop for a session. Starting an
// already-monitored session is a no-op. The caller's context covers
// only this call; the loop itself runs under the service's own context
// so it survives the caller (an HTTP request context in particular).
func (s *Service) StartMonitoring(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}
	if s.providers == nil {
		return ErrNoProviders
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}

	if existing, ok := s.monitors[sessionID]; ok && existing.Running() {
		return nil
	}

	faces, objects, err := s.providers(sessionID)
	if err != nil {
		return err
	}

	opts := append([]monitor.Option{monitor.WithAlertFunc(s.fanOut)}, s.monitorOpts...)
	m := monitor.New(sessionID, faces, objects, s.store, opts...)
	if err := m.Start(s.runCtx); err != nil {
		return err
	}
	s.monitors[sessionID] = m
	metrics.UpdateActiveSessions(len(s.monitors))

	return nil
}

// StopMonitoring halts a session's loop and releases its timer state.
// Idempotent; unknown sessions are ignored.
func (s *Service) StopMonitoring(sessionID string) {
	s.mu.Lock()
	m, ok := s.monitors[sessionID]
	if ok {
		delete(s.monitors, sessionID)
	}
	count := len(s.monitors)
	s.mu.Unlock()

	if ok {
		m.Stop()
		metrics.UpdateActiveSessions(count)
	}
}

// Monitoring reports whether a session currently has an active loop.
func (s *Service) Monitoring(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.monitors[sessionID]
	return ok && m.Running()
}

// LogEvent validates and appends one externally reported event. Missing
// event ids and timestamps are filled in.
func (s *Service) LogEvent(ctx context.Context, ev model.Event) error {
	if strings.TrimSpace(ev.SessionID) == "" || ev.Type == "" {
		return sink.ErrInvalidEvent
	}
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	if err := s.store.Append(ctx, ev); err != nil {
		metrics.RecordSinkAppendError()
		return err
	}
	metrics.RecordSinkAppend()
	return nil
}

// ComputeReport derives the integrity report for a session from its
// full event log. Safe to call at any time, any number of times; an
// empty log surfaces scoring.ErrNoEvents.
func (s *Service) ComputeReport(ctx context.Context, sessionID string) (types.Report, error) {
	events, err := s.store.ListBySession(ctx, sessionID)
	if err != nil {
		metrics.RecordReportError()
		return types.Report{}, err
	}

	report, err := s.aggregator.Aggregate(sessionID, events, s.resolver.NameFor(ctx, sessionID))
	if err != nil {
		metrics.RecordReportError()
		return types.Report{}, err
	}
	metrics.RecordReportComputed()
	return report, nil
}

// SessionStats summarizes recent activity for a session.
func (s *Service) SessionStats(ctx context.Context, sessionID string) (types.SessionActivity, error) {
	total, err := s.store.CountBySession(ctx, sessionID)
	if err != nil {
		return types.SessionActivity{}, err
	}
	if total == 0 {
		return types.SessionActivity{IsActive: false}, nil
	}

	events, err := s.store.ListBySession(ctx, sessionID)
	if err != nil {
		return types.SessionActivity{}, err
	}
	if len(events) == 0 {
		return types.SessionActivity{IsActive: false}, nil
	}

	last := events[len(events)-1]
	recent := events
	if len(recent) > recentEventLimit {
		recent = recent[len(recent)-recentEventLimit:]
	}
	recentAlerts := make([]types.Alert, 0, len(recent))
	// Most recent first, matching how dashboards render activity feeds.
	for i := len(recent) - 1; i >= 0; i-- {
		ev := recent[i]
		recentAlerts = append(recentAlerts, types.Alert{
			SessionID: ev.SessionID,
			AlertType: string(ev.Type),
			Timestamp: ev.Timestamp,
			Message:   ev.Message,
			Details:   ev.Details,
		})
	}

	elapsed := last.Timestamp.Sub(events[0].Timestamp)
	return types.SessionActivity{
		IsActive:     time.Since(last.Timestamp) < activeWindow,
		TotalEvents:  total,
		RecentEvents: recentAlerts,
		LastActivity: last.Timestamp,
		Duration:     types.FormatDuration(elapsed),
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := 0
	sessions := make([]string, 0, len(s.monitors))
	for id, m := range s.monitors {
		sessions = append(sessions, id)
		if m.Running() {
			active++
		}
	}

	return map[string]interface{}{
		"started":         s.started,
		"active_sessions": active,
		"sessions":        sessions,
	}
}

// fanOut delivers one emitted event to every registered alert consumer.
func (s *Service) fanOut(ev model.Event) {
	for _, fn := range s.alertFns {
		fn(ev)
	}
}
