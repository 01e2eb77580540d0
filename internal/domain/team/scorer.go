// Package team scores candidate teams and searches a bounded candidate
// pool for the best fixed-size composition.
package team

import (
	"context"

	"github.com/okian/crewcast/internal/domain/synergy"
)

// Scores bundles the per-person, pair and group inputs a candidate team
// is scored against. One pipeline run produces one Scores value.
type Scores struct {
	Person map[string]float64
	Pair   map[synergy.PairKey]float64
	Group  map[synergy.GroupKey]float64
}

// Scorer computes the value of a candidate team.
type Scorer struct{}

// NewScorer creates a team scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score sums three independent components: each member's individual
// score, the pair synergy of every unordered pair inside the team, and
// the group synergy looked up by the full sorted team as a single
// composite key (zero when absent). The group lookup is an exact match,
// not a decomposition over sub-groups.
func (s *Scorer) Score(_ context.Context, members []string, in Scores) float64 {
	var total float64
	for _, id := range members {
		total += in.Person[id]
	}
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			total += in.Pair[synergy.NewPairKey(members[i], members[j])]
		}
	}
	total += in.Group[synergy.NewGroupKey(members)]
	return total
}
