// Package ws serves the interactive session protocol over a websocket:
// a state snapshot on connect, apply-input messages inbound, and
// prediction results outbound.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/okian/crewcast/internal/adapters/mq/queue"
	"github.com/okian/crewcast/internal/adapters/repository"
	"github.com/okian/crewcast/internal/domain/model"
	"github.com/okian/crewcast/pkg/logger"
	"github.com/okian/crewcast/pkg/metrics"
)

// Connection tuning constants.
const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
	replyWait      = 60 * time.Second
)

// Dependencies bundles what the session handler needs from the service.
type Dependencies interface {
	// Snapshot returns the current session record.
	Snapshot(ctx context.Context) (model.SessionRecord, error)

	// Submit queues one edit and returns its reply channel.
	Submit(ctx context.Context, cmd model.EditCommand) (<-chan queue.Result, error)

	// AuditSession records connect/disconnect lifecycle events.
	AuditSession(ctx context.Context, kind, sessionID string)
}

// Handler upgrades HTTP requests into session connections.
type Handler struct {
	deps     Dependencies
	upgrader websocket.Upgrader
	open     atomic.Int64
	logger   logger.Logger
}

// NewHandler creates a websocket session handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		deps: deps,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger: logger.Get().Named("ws"),
	}
}

// applyInput mirrors the inbound apply-input message.
type applyInput struct {
	InputType string          `json:"input_type"`
	Payload   json.RawMessage `json:"payload"`
}

// snapshotNode is one roster node in the state snapshot.
type snapshotNode struct {
	PersonID   string  `json:"person_id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	LabelValue float64 `json:"label_value"`
}

// stateSnapshot is the outbound connect-time message.
type stateSnapshot struct {
	Type    string            `json:"type"`
	Team    []string          `json:"current_team"`
	Nodes   []snapshotNode    `json:"nodes"`
	LastKPI model.KPIReport   `json:"last_kpi"`
	Meta    map[string]string `json:"meta"`
}

// predictionKPI flattens a prediction into the wire KPI object.
type predictionKPI struct {
	Net           float64  `json:"net"`
	CostRatio     float64  `json:"cost_ratio"`
	Velocity      float64  `json:"velocity"`
	BestTeamScore float64  `json:"best_team_score"`
	BestTeam      []string `json:"best_team"`
}

// predictionResult is the outbound per-edit message.
type predictionResult struct {
	Type string        `json:"type"`
	KPI  predictionKPI `json:"kpi"`
}

// errorMessage reports conditions the protocol surfaces explicitly, such
// as an uninitialized session or queue backpressure.
type errorMessage struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

// HandleSession handles GET /ws requests.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	sessionID := uuid.NewString()
	metrics.UpdateWSSessions(int(h.open.Add(1)))
	h.deps.AuditSession(r.Context(), "connect", sessionID)

	defer func() {
		metrics.UpdateWSSessions(int(h.open.Add(-1)))
		h.deps.AuditSession(context.Background(), "disconnect", sessionID)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	ctx := r.Context()

	if err := h.sendSnapshot(ctx, conn); err != nil {
		h.logger.Warn(ctx, "snapshot send failed",
			logger.String("session", sessionID),
			logger.Error(err),
		)
		return
	}
	h.logger.Info(ctx, "session connected", logger.String("session", sessionID))

	for {
		var in applyInput
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn(ctx, "session read failed",
					logger.String("session", sessionID),
					logger.Error(err),
				)
			}
			return
		}

		cmd, ok := decodeInput(in)
		if !ok {
			// Unknown input types are ignored without a reply.
			h.logger.Debug(ctx, "ignoring unknown input type",
				logger.String("session", sessionID),
				logger.String("inputType", in.InputType),
			)
			continue
		}

		if err := h.applyAndReply(ctx, conn, cmd); err != nil {
			h.logger.Warn(ctx, "session write failed",
				logger.String("session", sessionID),
				logger.Error(err),
			)
			return
		}
	}
}

// decodeInput maps a wire message onto an edit command. The second return
// is false for unknown input types, which the protocol ignores silently.
func decodeInput(in applyInput) (model.EditCommand, bool) {
	switch model.EditKind(in.InputType) {
	case model.EditSwap:
		var p model.SwapPayload
		if len(in.Payload) > 0 {
			if err := json.Unmarshal(in.Payload, &p); err != nil {
				return model.EditCommand{}, false
			}
		}
		return model.EditCommand{Kind: model.EditSwap, Swap: p}, true
	case model.EditAlloc:
		var allocs []model.AllocDelta
		if len(in.Payload) > 0 {
			if err := json.Unmarshal(in.Payload, &allocs); err != nil {
				return model.EditCommand{}, false
			}
		}
		return model.EditCommand{Kind: model.EditAlloc, Allocs: allocs}, true
	case model.EditNone:
		return model.EditCommand{Kind: model.EditNone}, true
	default:
		return model.EditCommand{}, false
	}
}

func (h *Handler) sendSnapshot(ctx context.Context, conn *websocket.Conn) error {
	record, err := h.deps.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotInitialized) {
			return h.writeJSON(conn, errorMessage{Type: "error", Code: "not_initialized"})
		}
		return err
	}

	nodes := make([]snapshotNode, 0, len(record.Nodes))
	for id, n := range record.Nodes {
		nodes = append(nodes, snapshotNode{PersonID: id, X: n.X, Y: n.Y, LabelValue: n.LabelValue})
	}
	return h.writeJSON(conn, stateSnapshot{
		Type:    "state_snapshot",
		Team:    record.Team,
		Nodes:   nodes,
		LastKPI: record.LastKPI,
		Meta:    record.Meta,
	})
}

// applyAndReply submits the edit and writes the outcome. Degraded
// conditions (backpressure, uninitialized) become explicit error
// messages; pipeline failures make no reply at all beyond the error
// frame, and the session stays open for further edits.
func (h *Handler) applyAndReply(ctx context.Context, conn *websocket.Conn, cmd model.EditCommand) error {
	reply, err := h.deps.Submit(ctx, cmd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotInitialized):
			return h.writeJSON(conn, errorMessage{Type: "error", Code: "not_initialized"})
		default:
			return h.writeJSON(conn, errorMessage{Type: "error", Code: "busy"})
		}
	}

	select {
	case res := <-reply:
		if res.Err != nil || res.Prediction == nil {
			return h.writeJSON(conn, errorMessage{Type: "error", Code: "edit_aborted"})
		}
		return h.writeJSON(conn, predictionResult{
			Type: "prediction_result",
			KPI: predictionKPI{
				Net:           res.Prediction.KPI.Net,
				CostRatio:     res.Prediction.KPI.CostRatio,
				Velocity:      res.Prediction.KPI.Velocity,
				BestTeamScore: res.Prediction.BestTeamScore,
				BestTeam:      res.Prediction.BestTeam,
			},
		})
	case <-time.After(replyWait):
		return h.writeJSON(conn, errorMessage{Type: "error", Code: "timeout"})
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handler) writeJSON(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
