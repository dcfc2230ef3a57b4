package sink

import "errors"

// Sentinel kinds for sink errors.
var (
	ErrClosed       = errors.New("event sink closed")
	ErrInvalidEvent = errors.New("invalid event")
)
