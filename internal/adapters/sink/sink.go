// Package sink defines the append-only event store interface and its
// implementations. The sink is the sole source of truth for a
// session's alert stream: reports are always computed fresh from a
// full ordered read.
package sink

import (
	"context"

	"github.com/okian/vigil/internal/domain/model"
)

// Store is the append-only, session-scoped event log.
type Store interface {
	// Append persists one emitted event. Safe for concurrent calls
	// across sessions; events of one session arrive in fire order.
	Append(ctx context.Context, ev model.Event) error

	// ListBySession returns all events for a session ascending by
	// timestamp. An unknown session yields an empty slice, not an error.
	ListBySession(ctx context.Context, sessionID string) ([]model.Event, error)

	// CountBySession returns the number of events stored for a session.
	CountBySession(ctx context.Context, sessionID string) (int, error)
}
