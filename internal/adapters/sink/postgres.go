package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/vigil/internal/domain/model"
)

// bootstrapDDL creates the append-only event table. The table carries a
// serial sequence so same-timestamp events keep their append order.
const bootstrapDDL = `
CREATE TABLE IF NOT EXISTS integrity_events (
	seq        BIGSERIAL PRIMARY KEY,
	event_id   TEXT NOT NULL,
	session_id TEXT NOT NULL,
	alert_type TEXT NOT NULL,
	ts         TIMESTAMPTZ NOT NULL,
	message    TEXT NOT NULL DEFAULT '',
	details    JSONB
);
CREATE INDEX IF NOT EXISTS idx_integrity_events_session ON integrity_events (session_id, ts);
`

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and ensures the event table
// exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("sink: connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, bootstrapDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("sink: bootstrap schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Append persists one event.
func (s *PostgresStore) Append(ctx context.Context, ev model.Event) error {
	if ev.SessionID == "" || ev.Type == "" || ev.Timestamp.IsZero() {
		return ErrInvalidEvent
	}

	var details []byte
	if ev.Details != nil {
		b, err := json.Marshal(ev.Details)
		if err != nil {
			return fmt.Errorf("sink: marshal details: %w", err)
		}
		details = b
	}

	_, err := s.pool.Exec(ctx, `
INSERT INTO integrity_events (event_id, session_id, alert_type, ts, message, details)
VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.EventID, ev.SessionID, string(ev.Type), ev.Timestamp, ev.Message, details)
	if err != nil {
		return fmt.Errorf("sink: append event: %w", err)
	}
	return nil
}

// ListBySession returns the session's events ascending by timestamp,
// append order breaking ties.
func (s *PostgresStore) ListBySession(ctx context.Context, sessionID string) ([]model.Event, error) {
	rows, err := s.pool.Query(ctx, `
SELECT event_id, session_id, alert_type, ts, message, details
FROM integrity_events
WHERE session_id = $1
ORDER BY ts ASC, seq ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sink: list events: %w", err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var ev model.Event
		var alertType string
		var details []byte
		if err := rows.Scan(&ev.EventID, &ev.SessionID, &alertType, &ev.Timestamp, &ev.Message, &details); err != nil {
			return nil, fmt.Errorf("sink: scan event: %w", err)
		}
		ev.Type = model.AlertType(alertType)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &ev.Details); err != nil {
				return nil, fmt.Errorf("sink: unmarshal details: %w", err)
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sink: iterate events: %w", err)
	}
	return out, nil
}

// CountBySession returns the number of stored events for a session.
func (s *PostgresStore) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM integrity_events WHERE session_id = $1`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sink: count events: %w", err)
	}
	return count, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
