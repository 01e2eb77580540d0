package ingest

import "errors"

// Sentinel errors for the ingestion boundary.
var (
	// ErrMalformedFile indicates an event file that is not valid JSON.
	ErrMalformedFile = errors.New("malformed event file")
)
