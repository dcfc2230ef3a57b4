package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	// ErrNoEvents marks a session with an empty event log. Distinct from
	// a zero-violation report: callers translate it to a not-found.
	ErrNoEvents = errors.New("no events for session")
)
