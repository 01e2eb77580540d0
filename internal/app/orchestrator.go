package app

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/crewcast/internal/domain/model"
	"github.com/okian/crewcast/internal/domain/synergy"
	"github.com/okian/crewcast/internal/domain/team"
	"github.com/okian/crewcast/pkg/logger"
	"github.com/okian/crewcast/pkg/metrics"
)

// Orchestration stage names, recorded per cycle.
const (
	stageProjecting  = "projecting"
	stageRecomputing = "recomputing"
	stageCommitting  = "committing"
)

// Apply runs one full orchestration cycle:
//
//	Idle -> Projecting -> Recomputing -> Committing -> Idle
//
// The projection edits working copies only; the pipeline recomputes every
// derived entity from scratch; the commit is the single point where the
// session record mutates. Any failure aborts the cycle and leaves the
// record at its last committed value. A panic anywhere in the pipeline is
// converted into the same no-state-change outcome so one bad edit cannot
// take the session down.
func (s *Service) Apply(ctx context.Context, cmd model.EditCommand) (pred *model.Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			pred = nil
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	current, snapErr := s.Snapshot(ctx)
	if snapErr != nil {
		return nil, snapErr
	}

	// Projecting.
	start := time.Now()
	workingMoney := s.money
	roster := current.Team
	switch cmd.Kind {
	case model.EditSwap:
		roster = s.projector.ApplySwap(ctx, roster, cmd.Swap)
	case model.EditAlloc:
		workingMoney = s.projector.ApplyAlloc(ctx, s.money, cmd.Allocs)
	case model.EditNone:
		// Recompute against the unmodified current state.
	default:
		return nil, ErrUnknownEditKind
	}
	metrics.RecordStageLatency(stageProjecting, float64(time.Since(start).Milliseconds()))

	// Recomputing.
	start = time.Now()
	baselines := s.baselines.Compute(ctx, workingMoney)
	weights := s.weights.Compute(ctx, workingMoney)
	report := s.kpis.Compute(ctx, workingMoney, s.burns)

	pairParts := s.pairs.Aggregate(ctx, workingMoney, baselines)
	groupParts := s.groups.Aggregate(ctx, workingMoney, baselines)
	scores := team.Scores{
		Pair:  synergy.CombinePairs(ctx, pairParts, weights),
		Group: synergy.CombineGroups(ctx, groupParts, weights),
	}
	bestTeam, bestScore := s.search.BestFromBaselines(ctx, baselines, scores)
	metrics.RecordStageLatency(stageRecomputing, float64(time.Since(start).Milliseconds()))

	// Committing.
	start = time.Now()
	next := current.Clone()
	next.LastKPI = report
	if cmd.Kind == model.EditSwap {
		// The search result, not the raw projected roster, becomes the
		// new current team.
		next.Team = append([]string(nil), bestTeam...)
	}
	refreshNodes(&next, baselines)
	next.Meta["last_edit_kind"] = string(cmd.Kind)
	next.Meta["updated_at"] = time.Now().UTC().Format(time.RFC3339)

	if err := s.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("committing session record: %w", err)
	}

	s.mu.Lock()
	s.record = next
	s.editsApplied++
	s.mu.Unlock()
	metrics.RecordStageLatency(stageCommitting, float64(time.Since(start).Milliseconds()))
	metrics.UpdateRosterSize(len(next.Team))
	metrics.RecordEditApplied(string(cmd.Kind))

	prediction := model.Prediction{
		KPI:           report,
		BestTeam:      bestTeam,
		BestTeamScore: bestScore,
	}

	if auditErr := s.sink.RecordEdit(ctx, cmd, prediction); auditErr != nil {
		s.logger.Warn(ctx, "edit audit failed", logger.Error(auditErr))
	}
	return &prediction, nil
}

// refreshNodes rewrites baseline-derived label values on node metadata,
// keeping display positions stable. People joining the roster without
// prior metadata start at the origin; clients lay them out.
func refreshNodes(record *model.SessionRecord, baselines map[string]model.PersonBaseline) {
	if record.Nodes == nil {
		record.Nodes = make(map[string]model.NodeMeta)
	}
	for _, id := range record.Team {
		node := record.Nodes[id]
		node.LabelValue = baselines[id].Rate
		record.Nodes[id] = node
	}
	for id, node := range record.Nodes {
		if row, ok := baselines[id]; ok {
			node.LabelValue = row.Rate
			record.Nodes[id] = node
		}
	}
}
