package sink

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/okian/vigil/internal/domain/model"
)

// MemoryStore implements Store with per-session ordered slices. It is
// the default sink when no database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string][]model.Event
	closed bool
}

// NewMemoryStore creates an empty in-memory event store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events: make(map[string][]model.Event),
	}
}

// Append persists one event.
func (s *MemoryStore) Append(_ context.Context, ev model.Event) error {
	if strings.TrimSpace(ev.SessionID) == "" || ev.Type == "" || ev.Timestamp.IsZero() {
		return ErrInvalidEvent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.events[ev.SessionID] = append(s.events[ev.SessionID], ev)
	return nil
}

// ListBySession returns the session's events ascending by timestamp.
func (s *MemoryStore) ListBySession(_ context.Context, sessionID string) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	stored := s.events[sessionID]
	out := make([]model.Event, len(stored))
	copy(out, stored)

	// Appends arrive in fire order per session, but a stable sort keeps
	// the read contract honest for events logged with explicit
	// out-of-order timestamps via the external append path.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// CountBySession returns the number of stored events for a session.
func (s *MemoryStore) CountBySession(_ context.Context, sessionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrClosed
	}
	return len(s.events[sessionID]), nil
}

// Close rejects further operations.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
