// Package ingest loads raw event files into typed records and bootstraps
// the initial session state.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/crewcast/internal/domain/dedupe"
	"github.com/okian/crewcast/internal/domain/model"
	"github.com/okian/crewcast/pkg/logger"
	"github.com/okian/crewcast/pkg/metrics"
)

// flexFloat decodes a JSON value as a float64, coercing malformed or
// non-numeric values to 0 instead of failing the row.
type flexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		// Numbers sometimes arrive as strings in exported files.
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			if _, serr := fmt.Sscanf(strings.TrimSpace(s), "%g", &v); serr != nil {
				v = 0
			}
		} else {
			v = 0
		}
	}
	*f = flexFloat(v)
	return nil
}

// rawMoneyEvent mirrors one row of a money event file.
type rawMoneyEvent struct {
	EventID   string    `json:"event_id"`
	Date      string    `json:"date"`
	Amount    flexFloat `json:"amount"`
	Minutes   flexFloat `json:"minutes"`
	Tags      []string  `json:"tags"`
	ProjectID string    `json:"project_id"`
}

// rawBurnEvent mirrors one row of a burn event file.
type rawBurnEvent struct {
	EventID  string    `json:"event_id"`
	Date     string    `json:"date"`
	Amount   flexFloat `json:"amount"`
	Minutes  flexFloat `json:"minutes"`
	PersonID string    `json:"person_id"`
}

// Loader reads event files and resolves row defaults up front.
type Loader struct {
	guard  dedupe.Guard
	logger logger.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithGuard sets the idempotency guard used to drop duplicate event IDs.
func WithGuard(g dedupe.Guard) Option {
	return func(l *Loader) {
		l.guard = g
	}
}

// NewLoader creates a new event file loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		guard:  dedupe.NewInMemoryGuard(),
		logger: logger.Get().Named("ingest"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadMoneyEvents reads money events from a comma-separated list of JSON
// file paths. Duplicate event IDs across files are dropped.
func (l *Loader) LoadMoneyEvents(ctx context.Context, paths string) ([]model.MoneyEvent, error) {
	var out []model.MoneyEvent
	for _, path := range splitPaths(paths) {
		var rows []rawMoneyEvent
		if err := readJSONFile(path, &rows); err != nil {
			return nil, err
		}
		for _, raw := range rows {
			id := raw.EventID
			if id == "" {
				id = uuid.NewString()
			}
			if l.guard.SeenAndRecord(ctx, id) {
				continue
			}
			out = append(out, model.MoneyEvent{
				EventID:      id,
				Date:         parseDate(raw.Date),
				Amount:       float64(raw.Amount),
				Minutes:      float64(raw.Minutes),
				Participants: raw.Tags,
				ProjectID:    raw.ProjectID,
			})
		}
		l.logger.Info(ctx, "money events loaded",
			logger.String("path", path),
			logger.Int("rows", len(rows)),
		)
	}
	metrics.UpdateEventsLoaded("money", len(out))
	return out, nil
}

// LoadBurnEvents reads burn events from a comma-separated list of JSON
// file paths. Duplicate event IDs across files are dropped.
func (l *Loader) LoadBurnEvents(ctx context.Context, paths string) ([]model.BurnEvent, error) {
	var out []model.BurnEvent
	for _, path := range splitPaths(paths) {
		var rows []rawBurnEvent
		if err := readJSONFile(path, &rows); err != nil {
			return nil, err
		}
		for _, raw := range rows {
			id := raw.EventID
			if id == "" {
				id = uuid.NewString()
			}
			if l.guard.SeenAndRecord(ctx, id) {
				continue
			}
			out = append(out, model.BurnEvent{
				EventID:  id,
				Date:     parseDate(raw.Date),
				Amount:   float64(raw.Amount),
				Minutes:  float64(raw.Minutes),
				PersonID: raw.PersonID,
			})
		}
		l.logger.Info(ctx, "burn events loaded",
			logger.String("path", path),
			logger.Int("rows", len(rows)),
		)
	}
	metrics.UpdateEventsLoaded("burn", len(out))
	return out, nil
}

func splitPaths(paths string) []string {
	var out []string
	for _, p := range strings.Split(paths, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read event file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedFile, path, err)
	}
	return nil
}

// parseDate accepts RFC3339 or date-only values; anything else becomes
// the zero time, which window filters treat as "no date".
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
