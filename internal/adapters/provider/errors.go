package provider

import "errors"

// Sentinel kinds for provider errors.
var (
	// ErrNotReady signals a provider still initializing. The monitoring
	// loop treats the tick as a silent no-op.
	ErrNotReady = errors.New("provider not ready")
)
