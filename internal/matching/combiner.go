// internal/matching/combiner.go
// Score combination, threshold filtering, ranking

package matching

import (
	"math"
	"sort"
)

// Structured scores carry 60% of the combined score, semantic scores 40%.
const (
	structuredWeight = 0.6
	semanticWeight   = 0.4
)

// NormalizeStructured maps a 0-100 percentage to the 0-10 scale, rounding
// half up.
func NormalizeStructured(percentage float64) int {
	normalized := roundHalfUp(percentage / 10)
	if normalized < 0 {
		return 0
	}
	if normalized > 10 {
		return 10
	}
	return normalized
}

// CombineScores merges the two 0-10 sub-scores into one, rounding half up.
func CombineScores(structured, semantic int) int {
	return roundHalfUp(structuredWeight*float64(structured) + semanticWeight*float64(semantic))
}

// RankResults filters out results below minScore (inclusive boundary: a
// result at exactly minScore survives), sorts descending by combined score,
// and truncates to limit. The sort is stable so equal scores keep their input
// order, which keeps ranking deterministic.
func RankResults(results []MatchResult, minScore, limit int) []MatchResult {
	ranked := make([]MatchResult, 0, len(results))
	for _, r := range results {
		if r.CombinedScore >= minScore {
			ranked = append(ranked, r)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CombinedScore > ranked[j].CombinedScore
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
