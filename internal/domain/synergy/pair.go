package synergy

import (
	"context"
	"sort"

	"github.com/okian/crewcast/internal/domain/model"
)

// PairAggregator accumulates pairwise uplift partitions from money events.
type PairAggregator struct{}

// NewPairAggregator creates a pair aggregator.
func NewPairAggregator() *PairAggregator {
	return &PairAggregator{}
}

// Aggregate walks every event with positive minutes and at least two
// tagged participants. For each unordered pair of participants it compares
// the event's observed rate against the pair's average baseline rate
// (missing baselines count as zero) and accumulates the clamped uplift
// into the (pair, project) partition. Missing projects land in the
// unassigned bucket instead of being dropped.
func (a *PairAggregator) Aggregate(_ context.Context, events []model.MoneyEvent, baselines map[string]model.PersonBaseline) map[PairPartitionKey]Partition {
	parts := make(map[PairPartitionKey]Partition)
	for _, e := range events {
		if e.Minutes <= 0 || len(e.Participants) < 2 {
			continue
		}
		observed := e.Amount / e.Minutes
		project := e.ProjectID
		if project == "" {
			project = model.UnassignedProject
		}

		// Sorted iteration deduplicates unordered pairs across events
		// regardless of tag order.
		tags := append([]string(nil), e.Participants...)
		sort.Strings(tags)
		for i := 0; i < len(tags); i++ {
			for j := i + 1; j < len(tags); j++ {
				avg := (baselines[tags[i]].Rate + baselines[tags[j]].Rate) / 2
				uplift := observed - avg
				if uplift < 0 {
					uplift = 0
				}
				key := PairPartitionKey{Pair: NewPairKey(tags[i], tags[j]), Project: project}
				part := parts[key]
				part.UpliftSum += uplift
				part.EventCount++
				parts[key] = part
			}
		}
	}
	return parts
}
