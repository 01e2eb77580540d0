package repository

import "errors"

// Sentinel kinds for session store errors.
var (
	// ErrNotInitialized reports that no session record has ever been
	// persisted. Distinct from transient storage failures.
	ErrNotInitialized = errors.New("session not initialized")
)
