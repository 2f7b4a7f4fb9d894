package matching

import (
	"testing"

	"github.com/kiezswap/kiezswap-backend/internal/listings"
)

func TestNormalizeStructuredRoundsHalfUp(t *testing.T) {
	cases := []struct {
		pct  float64
		want int
	}{
		{0, 0},
		{44.9, 4},
		{45, 5}, // .5 boundary rounds up
		{55, 6},
		{94.1, 9},
		{95, 10},
		{100, 10},
	}
	for _, c := range cases {
		if got := NormalizeStructured(c.pct); got != c.want {
			t.Errorf("NormalizeStructured(%.1f) = %d, want %d", c.pct, got, c.want)
		}
	}
}

func TestCombineScoresWeighting(t *testing.T) {
	cases := []struct {
		structured, semantic, want int
	}{
		{0, 0, 0},
		{10, 10, 10},
		{5, 5, 5},
		{10, 1, 6},  // 6.4 rounds down
		{7, 1, 5},   // 4.6 rounds up
		{8, 3, 6},   // 6.0 exact
		{9, 2, 6},   // 6.2
		{1, 10, 5},  // 4.6
		{10, 0, 6},  // 6.0
		{6, 4, 5},   // 5.2
	}
	for _, c := range cases {
		if got := CombineScores(c.structured, c.semantic); got != c.want {
			t.Errorf("CombineScores(%d, %d) = %d, want %d", c.structured, c.semantic, got, c.want)
		}
	}
}

func TestCombineScoresFullGrid(t *testing.T) {
	// Integer reformulation of round-half-up: floor((6s+4m)/10 + 1/2).
	for s := 0; s <= 10; s++ {
		for m := 0; m <= 10; m++ {
			want := (6*s + 4*m + 5) / 10
			if got := CombineScores(s, m); got != want {
				t.Errorf("CombineScores(%d, %d) = %d, want %d", s, m, got, want)
			}
		}
	}
}

func result(id string, combined int) MatchResult {
	return MatchResult{
		Listing:       listings.Listing{ID: id},
		CombinedScore: combined,
	}
}

func TestRankResultsThresholdIsInclusive(t *testing.T) {
	ranked := RankResults([]MatchResult{result("low", 4), result("edge", 5), result("high", 8)}, 5, 10)

	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	if ranked[0].Listing.ID != "high" || ranked[1].Listing.ID != "edge" {
		t.Errorf("score 5 must survive a threshold of 5 and sort after 8: %v", ranked)
	}
}

func TestRankResultsStableForEqualScores(t *testing.T) {
	ranked := RankResults([]MatchResult{
		result("first", 7),
		result("second", 7),
		result("third", 7),
	}, 5, 10)

	want := []string{"first", "second", "third"}
	for i, id := range want {
		if ranked[i].Listing.ID != id {
			t.Fatalf("equal scores must keep input order, got %s at %d", ranked[i].Listing.ID, i)
		}
	}
}

func TestRankResultsTruncatesToLimit(t *testing.T) {
	input := []MatchResult{
		result("a", 9), result("b", 8), result("c", 7), result("d", 6),
	}

	ranked := RankResults(input, 5, 2)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	if ranked[0].Listing.ID != "a" || ranked[1].Listing.ID != "b" {
		t.Errorf("truncation must keep the top scores: %v", ranked)
	}
}
