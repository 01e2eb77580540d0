package team

import (
	"context"
	"sort"

	"github.com/okian/crewcast/internal/domain/model"
)

// Default search configuration constants. The pool size bounds the
// brute-force enumeration at C(poolSize, teamSize); keeping it under
// roughly 15-20 is a hard scaling limit of this design, sized for a
// deployment with dozens of candidates, not thousands.
const (
	defaultPoolSize = 12
	defaultTeamSize = 4
)

// SearchOption applies a configuration option to the Search.
type SearchOption func(*Search)

// WithPoolSize caps the top-K candidate pool considered by the search.
func WithPoolSize(k int) SearchOption {
	return func(s *Search) {
		if k > 0 {
			s.poolSize = k
		}
	}
}

// WithTeamSize sets the fixed team size the search selects.
func WithTeamSize(n int) SearchOption {
	return func(s *Search) {
		if n > 0 {
			s.teamSize = n
		}
	}
}

// Search selects a bounded candidate pool by individual score and
// exhaustively scores every fixed-size combination within it.
type Search struct {
	poolSize int
	teamSize int
	scorer   *Scorer
}

// NewSearch creates a best-team search with configuration options.
func NewSearch(opts ...SearchOption) *Search {
	s := &Search{
		poolSize: defaultPoolSize,
		teamSize: defaultTeamSize,
		scorer:   NewScorer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TeamSize returns the configured fixed team size.
func (s *Search) TeamSize() int {
	return s.teamSize
}

// Best returns the maximum-scoring team of the configured size drawn from
// the top-K candidates by individual score (ties broken by person ID for
// determinism). When fewer candidates than the team size exist the
// candidate list itself is returned with score zero; a short pool is a
// degraded result, not an error.
func (s *Search) Best(ctx context.Context, in Scores) ([]string, float64) {
	pool := topCandidates(in.Person, s.poolSize)
	if len(pool) < s.teamSize {
		return pool, 0
	}

	var (
		best      []string
		bestScore float64
		found     bool
		combo     = make([]string, s.teamSize)
	)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == s.teamSize {
			members := append([]string(nil), combo...)
			score := s.scorer.Score(ctx, members, in)
			if !found || score > bestScore {
				best = members
				bestScore = score
				found = true
			}
			return
		}
		for i := start; i <= len(pool)-(s.teamSize-depth); i++ {
			combo[depth] = pool[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return best, bestScore
}

// BestFromBaselines runs Best with baseline rates as the individual
// scores, the common caller shape.
func (s *Search) BestFromBaselines(ctx context.Context, baselines map[string]model.PersonBaseline, in Scores) ([]string, float64) {
	person := make(map[string]float64, len(baselines))
	for id, row := range baselines {
		person[id] = row.Rate
	}
	in.Person = person
	return s.Best(ctx, in)
}

// topCandidates returns up to k person IDs ordered by score descending,
// ID ascending on ties.
func topCandidates(scores map[string]float64, k int) []string {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > k {
		ids = ids[:k]
	}
	return ids
}
