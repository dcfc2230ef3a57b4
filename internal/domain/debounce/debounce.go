// Package debounce converts noisy per-tick condition signals into a
// sparse alert stream: a condition must hold for its sustain duration
// before firing, and a fired alert is suppressed for a cooldown window.
package debounce

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/vigil/internal/domain/classify"
	"github.com/okian/vigil/internal/domain/model"
)

// timer is the per-alert-type mutable debounce state. A zero
// pendingSince means no sustain timer is running (IDLE or FIRED); a
// future cooldownUntil means the alert is in its cooldown window.
type timer struct {
	pendingSince  time.Time
	cooldownUntil time.Time
}

// Tracker owns the debounce state for one session as an explicit map
// keyed by alert type. It is driven by a single goroutine (the
// session's monitoring loop) and performs no locking of its own.
type Tracker struct {
	sessionID string
	timers    map[model.AlertType]*timer
	sustain   map[model.AlertType]time.Duration
	cooldown  map[model.AlertType]time.Duration
}

// NewTracker creates a tracker for a session with configuration options.
func NewTracker(sessionID string, opts ...Option) *Tracker {
	t := &Tracker{
		sessionID: sessionID,
		timers:    make(map[model.AlertType]*timer),
		sustain:   make(map[model.AlertType]time.Duration),
		cooldown:  make(map[model.AlertType]time.Duration),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Observe advances the state machine for one signal at wall-clock time
// now. It returns the emitted event when the signal's condition has
// held for its sustain duration outside a cooldown window, and whether
// a true condition was swallowed by an active cooldown.
//
// Emitting the returned event (sink append, alert fan-out) is the
// caller's job; a failed append must not be retried through Observe,
// the cooldown stands either way.
func (t *Tracker) Observe(sig classify.Signal, now time.Time) (*model.Event, bool) {
	tm := t.timers[sig.Type]
	if tm == nil {
		tm = &timer{}
		t.timers[sig.Type] = tm
	}

	// FIRED: ignore the condition entirely until the cooldown expires.
	if !tm.cooldownUntil.IsZero() {
		if now.Before(tm.cooldownUntil) {
			return nil, sig.Active
		}
		// Cooldown elapsed, re-arm.
		tm.cooldownUntil = time.Time{}
		tm.pendingSince = time.Time{}
	}

	if !sig.Active {
		// A sustain timer is discarded, never accumulated: a condition
		// that clears before the threshold starts over from scratch.
		tm.pendingSince = time.Time{}
		return nil, false
	}

	if tm.pendingSince.IsZero() {
		tm.pendingSince = now
	}

	if now.Sub(tm.pendingSince) < t.sustainFor(sig.Type) {
		return nil, false
	}

	tm.pendingSince = time.Time{}
	tm.cooldownUntil = now.Add(t.cooldownFor(sig.Type))

	return &model.Event{
		EventID:   uuid.NewString(),
		SessionID: t.sessionID,
		Type:      sig.Type,
		Timestamp: now,
		Message:   sig.Message,
		Details:   sig.Details,
	}, false
}

// Reset discards all per-type timer state. Called when the session's
// monitoring loop stops so no stale sustain or cooldown windows survive
// a restart.
func (t *Tracker) Reset() {
	t.timers = make(map[model.AlertType]*timer)
}

// SessionID returns the session this tracker belongs to.
func (t *Tracker) SessionID() string {
	return t.sessionID
}

func (t *Tracker) sustainFor(at model.AlertType) time.Duration {
	if d, ok := t.sustain[at]; ok {
		return d
	}
	return at.Sustain()
}

func (t *Tracker) cooldownFor(at model.AlertType) time.Duration {
	if d, ok := t.cooldown[at]; ok {
		return d
	}
	return at.Cooldown()
}
