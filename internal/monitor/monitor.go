// Package monitor drives the per-session detection loop: classifier
// then debounce tracker at a fixed cadence, with emitted alerts
// appended to the event sink.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/vigil/internal/adapters/provider"
	"github.com/okian/vigil/internal/adapters/sink"
	"github.com/okian/vigil/internal/domain/classify"
	"github.com/okian/vigil/internal/domain/debounce"
	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/pkg/logger"
	"github.com/okian/vigil/pkg/metrics"
)

// Default loop configuration constants.
const (
	defaultTickInterval = 500 * time.Millisecond
	// Provider calls are bounded so a stalled provider cannot stall the
	// timer discipline; a slow tick is skipped, never queued.
	defaultProviderTimeout = 400 * time.Millisecond
)

// AlertFunc receives each emitted event exactly once.
type AlertFunc func(ev model.Event)

// Monitor runs the detection loop for one session. Sessions are
// independent: each Monitor owns its own tracker and goroutine and
// shares nothing mutable with other sessions.
type Monitor struct {
	sessionID  string
	faces      provider.FaceProvider
	objects    provider.ObjectProvider
	classifier *classify.Classifier
	tracker    *debounce.Tracker
	store      sink.Store
	onAlert    AlertFunc

	tickInterval    time.Duration
	providerTimeout time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}

	trackerOpts []debounce.Option
	logger      logger.Logger
}

// New creates a monitor for a session with configuration options.
func New(sessionID string, faces provider.FaceProvider, objects provider.ObjectProvider, store sink.Store, opts ...Option) *Monitor {
	m := &Monitor{
		sessionID:       sessionID,
		faces:           faces,
		objects:         objects,
		store:           store,
		tickInterval:    defaultTickInterval,
		providerTimeout: defaultProviderTimeout,
		logger:          logger.Get().Named("monitor"),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.classifier == nil {
		m.classifier = classify.New()
	}
	if m.tracker == nil {
		m.tracker = debounce.NewTracker(sessionID, m.trackerOpts...)
	}

	return m
}

// Start begins ticking. Calling Start on a running monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}
	m.stopCh = make(chan struct{})
	m.done = make(chan struct{})
	m.running = true

	go m.run(ctx, m.stopCh, m.done)

	m.logger.Info(ctx, "monitoring started",
		logger.String("session", m.sessionID),
		logger.Any("tick_interval", m.tickInterval),
	)
	return nil
}

// Stop halts the loop and discards all per-type timer state. It is
// idempotent and safe to call from any goroutine; it returns once the
// loop goroutine has exited.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		// The loop may have exited on its own (context cancellation);
		// still wait for the goroutine before returning.
		done := m.done
		m.mu.Unlock()
		if done != nil {
			<-done
		}
		return
	}
	m.running = false
	close(m.stopCh)
	done := m.done
	m.mu.Unlock()

	<-done
}

// Running reports whether the loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// SessionID returns the session this monitor watches.
func (m *Monitor) SessionID() string {
	return m.sessionID
}

func (m *Monitor) run(ctx context.Context, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	// The loop owns the running flag on the way out so a context-driven
	// exit leaves the monitor restartable, not stuck reporting active.
	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()
	// Timer state never outlives the loop.
	defer m.tracker.Reset()

	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case now := <-ticker.C:
			// time.Ticker drops missed ticks while a slow tick is in
			// flight, which is exactly the no-backlog discipline wanted.
			m.tick(ctx, now)
		}
	}
}

// tick runs one observation cycle. Errors are contained here: a failed
// tick never stops the loop or other sessions.
func (m *Monitor) tick(ctx context.Context, now time.Time) {
	start := time.Now()

	pctx, cancel := context.WithTimeout(ctx, m.providerTimeout)
	defer cancel()

	faces, err := m.faces.DetectFaces(pctx)
	if m.skipTick(ctx, err, "face provider") {
		return
	}
	objects, err := m.objects.DetectObjects(pctx)
	if m.skipTick(ctx, err, "object provider") {
		return
	}

	for _, sig := range m.classifier.Classify(faces, objects) {
		ev, suppressed := m.tracker.Observe(sig, now)
		if suppressed {
			metrics.RecordAlertSuppressed(string(sig.Type))
		}
		if ev == nil {
			continue
		}
		m.emit(ctx, *ev)
	}

	metrics.RecordTickProcessed()
	metrics.RecordTickDuration(float64(time.Since(start).Milliseconds()))
}

// emit appends the event and notifies the alert consumer. A sink
// failure is surfaced but does not undo the fired transition; the
// cooldown stands, so a degraded sink sees no retry storm.
func (m *Monitor) emit(ctx context.Context, ev model.Event) {
	appendStart := time.Now()
	if err := m.store.Append(ctx, ev); err != nil {
		metrics.RecordSinkAppendError()
		m.logger.Error(ctx, "event sink append failed",
			logger.String("session", m.sessionID),
			logger.String("alert_type", string(ev.Type)),
			logger.Error(err),
		)
	} else {
		metrics.RecordSinkAppend()
		metrics.RecordSinkAppendLatency(float64(time.Since(appendStart).Milliseconds()))
	}

	metrics.RecordAlertEmitted(string(ev.Type))
	m.logger.Info(ctx, "alert emitted",
		logger.String("session", m.sessionID),
		logger.String("alert_type", string(ev.Type)),
		logger.String("message", ev.Message),
	)

	if m.onAlert != nil {
		m.onAlert(ev)
	}
}

// skipTick decides whether a provider result aborts the tick. Not-ready
// providers are a silent no-op, this is a best-effort monitor.
func (m *Monitor) skipTick(ctx context.Context, err error, what string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, provider.ErrNotReady) {
		metrics.RecordTickSkipped("provider_not_ready")
		m.logger.Debug(ctx, "tick skipped, provider not ready",
			logger.String("session", m.sessionID),
			logger.String("provider", what),
		)
		return true
	}
	metrics.RecordTickSkipped("provider_error")
	m.logger.Warn(ctx, "tick skipped, provider error",
		logger.String("session", m.sessionID),
		logger.String("provider", what),
		logger.Error(err),
	)
	return true
}
