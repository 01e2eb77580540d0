package synergy

import "context"

// Weight applied to partitions whose project has no computed weight.
const defaultProjectWeight = 1.0

// CombinePairs folds per-project pair partitions into one score per pair
// key, weighting each partition's uplift sum by its project's weight. The
// project dimension is removed in the result.
func CombinePairs(_ context.Context, parts map[PairPartitionKey]Partition, weights map[string]float64) map[PairKey]float64 {
	scores := make(map[PairKey]float64, len(parts))
	for key, part := range parts {
		scores[key.Pair] += projectWeight(weights, key.Project) * part.UpliftSum
	}
	return scores
}

// CombineGroups folds per-project group partitions into one score per
// group key, mirroring CombinePairs.
func CombineGroups(_ context.Context, parts map[GroupPartitionKey]Partition, weights map[string]float64) map[GroupKey]float64 {
	scores := make(map[GroupKey]float64, len(parts))
	for key, part := range parts {
		scores[key.Group] += projectWeight(weights, key.Project) * part.UpliftSum
	}
	return scores
}

func projectWeight(weights map[string]float64, project string) float64 {
	if w, ok := weights[project]; ok {
		return w
	}
	return defaultProjectWeight
}
