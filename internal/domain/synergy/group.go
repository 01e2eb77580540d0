package synergy

import (
	"context"

	"github.com/okian/crewcast/internal/domain/model"
)

// Default group size bounds.
const (
	defaultMinGroupSize = 3
	defaultMaxGroupSize = 5
)

// GroupOption applies a configuration option to the GroupAggregator.
type GroupOption func(*GroupAggregator)

// WithSizeBounds sets the inclusive [min, max] participant count a money
// event needs to contribute to group synergy.
func WithSizeBounds(minSize, maxSize int) GroupOption {
	return func(a *GroupAggregator) {
		if minSize >= 2 && maxSize >= minSize {
			a.minSize = minSize
			a.maxSize = maxSize
		}
	}
}

// GroupAggregator accumulates whole-group uplift partitions from money
// events whose tag count falls within the configured bounds.
type GroupAggregator struct {
	minSize int
	maxSize int
}

// NewGroupAggregator creates a group aggregator with configuration
// options.
func NewGroupAggregator(opts ...GroupOption) *GroupAggregator {
	a := &GroupAggregator{
		minSize: defaultMinGroupSize,
		maxSize: defaultMaxGroupSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate accumulates uplift for the full tagged set of each qualifying
// event, keyed by (sorted member set, project). The uplift is the event's
// observed rate minus the members' average baseline rate, clamped at zero;
// missing baselines count as zero. Missing projects land in the unassigned
// bucket.
func (a *GroupAggregator) Aggregate(_ context.Context, events []model.MoneyEvent, baselines map[string]model.PersonBaseline) map[GroupPartitionKey]Partition {
	parts := make(map[GroupPartitionKey]Partition)
	for _, e := range events {
		n := len(e.Participants)
		if e.Minutes <= 0 || n < a.minSize || n > a.maxSize {
			continue
		}
		observed := e.Amount / e.Minutes
		project := e.ProjectID
		if project == "" {
			project = model.UnassignedProject
		}

		var sum float64
		for _, id := range e.Participants {
			sum += baselines[id].Rate
		}
		uplift := observed - sum/float64(n)
		if uplift < 0 {
			uplift = 0
		}

		key := GroupPartitionKey{Group: NewGroupKey(e.Participants), Project: project}
		part := parts[key]
		part.UpliftSum += uplift
		part.EventCount++
		parts[key] = part
	}
	return parts
}
