// Package synergy estimates uplift-over-baseline for person pairs and
// small groups, partitioned by project, and folds the partitions into
// single scores using project weights.
package synergy

import (
	"sort"
	"strings"
)

// Separator used inside GroupKey. Person IDs must not contain it; the
// ingestion schema enforces that.
const groupKeySep = "|"

// PairKey identifies an unordered pair of people. The constructor sorts
// the two IDs, so equality and map hashing are canonical regardless of
// tag order on the source event.
type PairKey struct {
	A string
	B string
}

// NewPairKey builds a canonical pair key from two person IDs.
func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// GroupKey identifies a set of people by their sorted IDs joined with a
// fixed separator. It is an explicit composite key with a canonical
// ordering, safe for use as a map key.
type GroupKey string

// NewGroupKey builds a canonical group key from person IDs. The input is
// not mutated.
func NewGroupKey(ids []string) GroupKey {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return GroupKey(strings.Join(sorted, groupKeySep))
}

// Members returns the person IDs encoded in the key, in canonical order.
func (k GroupKey) Members() []string {
	if k == "" {
		return nil
	}
	return strings.Split(string(k), groupKeySep)
}

// PairPartitionKey scopes a pair's uplift accumulation to one project
// bucket.
type PairPartitionKey struct {
	Pair    PairKey
	Project string
}

// GroupPartitionKey scopes a group's uplift accumulation to one project
// bucket.
type GroupPartitionKey struct {
	Group   GroupKey
	Project string
}

// Partition accumulates clamped uplift for one key within one project
// bucket. UpliftSum is never negative by construction.
type Partition struct {
	UpliftSum  float64
	EventCount int
}
