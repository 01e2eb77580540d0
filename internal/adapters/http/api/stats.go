package api

import (
	"net/http"

	"github.com/okian/crewcast/internal/app"
)

// StatsProvider exposes the service's monitoring counters.
type StatsProvider interface {
	GetStats() app.Stats
}

// StatsHandler serves the prediction service's runtime counters: event
// volumes, queue depth, roster size, and how many edits have committed.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a new StatsHandler reading from provider.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats responds to GET /stats with the current counters as JSON.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.provider.GetStats())
}
