// Package audit emits append-only records for accepted edits and session
// lifecycle events. Delivery failures are observable but never fatal to
// the edit that produced them.
package audit

import (
	"context"
	"time"

	"github.com/okian/crewcast/internal/domain/model"
)

// Record is one append-only audit entry.
type Record struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"` // "edit", "connect", "disconnect"
	SessionID string            `json:"session_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Edit      *model.EditCommand `json:"edit,omitempty"`
	Result    *model.Prediction  `json:"result,omitempty"`
}

// Record kinds.
const (
	KindEdit       = "edit"
	KindConnect    = "connect"
	KindDisconnect = "disconnect"
)

// Sink receives audit records.
type Sink interface {
	// RecordEdit publishes one record per accepted edit: the payload
	// plus the resulting prediction.
	RecordEdit(ctx context.Context, cmd model.EditCommand, result model.Prediction) error

	// RecordSession publishes a connect or disconnect record.
	RecordSession(ctx context.Context, kind, sessionID string) error

	// Close releases sink resources.
	Close() error
}

// NopSink discards all records. Used when no audit backend is configured.
type NopSink struct{}

// NewNopSink creates a sink that discards everything.
func NewNopSink() *NopSink {
	return &NopSink{}
}

func (*NopSink) RecordEdit(context.Context, model.EditCommand, model.Prediction) error {
	return nil
}

func (*NopSink) RecordSession(context.Context, string, string) error {
	return nil
}

func (*NopSink) Close() error {
	return nil
}
