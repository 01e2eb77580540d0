// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/crewcast/internal/adapters/repository"
	"github.com/okian/crewcast/internal/domain/model"
)

// SnapshotProvider exposes the current session state for read requests.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (model.SessionRecord, error)
}

// SessionHandler handles read-only session state requests.
type SessionHandler struct {
	snapshots SnapshotProvider
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(snapshots SnapshotProvider) *SessionHandler {
	return &SessionHandler{snapshots: snapshots}
}

// HandleGetSession handles GET /session requests.
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	record, err := h.snapshots.Snapshot(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotInitialized) {
			writeError(w, http.StatusServiceUnavailable, "not_initialized", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
