package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotRunning      = errors.New("service not running")
	ErrBackpressure    = errors.New("edit queue full")
	ErrUnknownEditKind = errors.New("unknown edit kind")
)
