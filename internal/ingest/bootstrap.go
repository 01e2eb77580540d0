package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/okian/crewcast/internal/adapters/repository"
	"github.com/okian/crewcast/internal/domain/baseline"
	"github.com/okian/crewcast/internal/domain/model"
	"github.com/okian/crewcast/pkg/logger"
)

// Display layout constants for bootstrapped rosters.
const (
	layoutCenterX = 400.0
	layoutCenterY = 300.0
	layoutRadius  = 200.0
)

// Bootstrapper seeds the session store on first run.
type Bootstrapper struct {
	store      repository.Store
	rosterSize int
	logger     logger.Logger
}

// NewBootstrapper creates a new session bootstrapper.
func NewBootstrapper(store repository.Store, rosterSize int) *Bootstrapper {
	return &Bootstrapper{
		store:      store,
		rosterSize: rosterSize,
		logger:     logger.Get().Named("bootstrap"),
	}
}

// EnsureInitialized writes an initial session record when the store has
// never been saved. The initial roster is the top-N people by baseline
// rate under a permissive single-event threshold. An already-initialized
// store is left untouched.
func (b *Bootstrapper) EnsureInitialized(ctx context.Context, money []model.MoneyEvent) error {
	if _, err := b.store.Load(ctx); err == nil {
		b.logger.Info(ctx, "session store already initialized")
		return nil
	} else if !errors.Is(err, repository.ErrNotInitialized) {
		return fmt.Errorf("bootstrap load: %w", err)
	}

	// Permissive pass so thin histories still produce a roster.
	calc := baseline.New(baseline.WithMinEvents(1))
	baselines := calc.Compute(ctx, money)

	roster := topByRate(baselines, b.rosterSize)
	record := model.SessionRecord{
		Team:  roster,
		Nodes: layoutNodes(roster, baselines),
		Meta: map[string]string{
			"bootstrapped_at": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := b.store.Save(ctx, record); err != nil {
		return fmt.Errorf("bootstrap save: %w", err)
	}
	b.logger.Info(ctx, "session bootstrapped",
		logger.Int("rosterSize", len(roster)),
		logger.Int("baselines", len(baselines)),
	)
	return nil
}

// topByRate ranks people by baseline rate descending, breaking ties by
// person ID ascending, and returns at most n IDs.
func topByRate(baselines map[string]model.PersonBaseline, n int) []string {
	ids := make([]string, 0, len(baselines))
	for id := range baselines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ri, rj := baselines[ids[i]].Rate, baselines[ids[j]].Rate
		if ri != rj {
			return ri > rj
		}
		return ids[i] < ids[j]
	})
	if n > 0 && len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

// layoutNodes assigns deterministic display positions on a circle, in
// roster order, with the baseline rate as the node label.
func layoutNodes(roster []string, baselines map[string]model.PersonBaseline) map[string]model.NodeMeta {
	nodes := make(map[string]model.NodeMeta, len(roster))
	for i, id := range roster {
		angle := 2 * math.Pi * float64(i) / float64(max(len(roster), 1))
		nodes[id] = model.NodeMeta{
			X:          layoutCenterX + layoutRadius*math.Cos(angle),
			Y:          layoutCenterY + layoutRadius*math.Sin(angle),
			LabelValue: baselines[id].Rate,
		}
	}
	return nodes
}
