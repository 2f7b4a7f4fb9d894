// internal/ai/semantic.go
// Batched semantic compatibility scoring of listings against a user

package ai

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"strings"

	"golang.org/x/time/rate"

	"github.com/kiezswap/kiezswap-backend/internal/config"
	"github.com/kiezswap/kiezswap-backend/internal/listings"
)

// FloorScore is the semantic score assigned when scoring is skipped or a
// batch fails. It is the bottom of the 1-10 scale, never 0.
const FloorScore = 1

// SemanticScore is the model's verdict for one listing. The two bullet lists
// are strictly directional: the first describes the listing's offered
// apartment against the user's wishes, the second describes the user's
// apartment against the listing author's wishes.
type SemanticScore struct {
	Score                  int      `json:"score"`
	WhatYouWantAndTheyHave []string `json:"whatYouWantAndTheyHave"`
	WhatYouHaveAndTheyWant []string `json:"whatYouHaveAndTheyWant"`
}

// SemanticInput carries the user-side free text for one match request.
// OfferFacts is an optional structured summary of the user's apartment that
// the prompt tells the model to trust over the free-text description.
type SemanticInput struct {
	LookingFor string
	Offered    string
	OfferFacts string
}

// SemanticScorer runs listings through the model in fixed-size batches,
// sequentially, with a pause between batches to stay under provider rate
// limits. A quota or billing error aborts all remaining batches.
type SemanticScorer struct {
	chat             ChatClient
	limiter          *rate.Limiter
	batchSize        int
	userTextLimit    int
	listingTextLimit int
	minText          int
}

func NewSemanticScorer(chat ChatClient, cfg *config.Config) *SemanticScorer {
	return &SemanticScorer{
		chat:             chat,
		limiter:          rate.NewLimiter(rate.Every(cfg.SemanticBatchDelay), 1),
		batchSize:        cfg.SemanticBatchSize,
		userTextLimit:    cfg.UserTextLimit,
		listingTextLimit: cfg.ListingTextLimit,
		minText:          cfg.MinSemanticText,
	}
}

// ScoreListings returns a semantic score per listing id. Every listing in the
// pool gets an entry: listings the model never saw (skip, batch failure,
// quota abort) get the floor score with empty reason lists. The method never
// returns an error; semantic scoring is a soft dependency.
func (s *SemanticScorer) ScoreListings(ctx context.Context, user SemanticInput, pool []listings.Listing) map[string]SemanticScore {
	scores := make(map[string]SemanticScore, len(pool))
	for _, l := range pool {
		scores[l.ID] = SemanticScore{Score: FloorScore}
	}

	if len(pool) == 0 || s.chat == nil {
		return scores
	}

	if !s.shouldScore(user, pool) {
		log.Printf("ℹ️ Skipping semantic scoring: not enough free text to compare")
		return scores
	}

	userWants := Truncate(user.LookingFor, s.userTextLimit)
	userHas := Truncate(user.Offered, s.userTextLimit)

	for start := 0; start < len(pool); start += s.batchSize {
		end := start + s.batchSize
		if end > len(pool) {
			end = len(pool)
		}
		batch := pool[start:end]

		if err := s.limiter.Wait(ctx); err != nil {
			log.Printf("⚠️ Semantic scoring cancelled: %v", err)
			return scores
		}

		entries := make([]batchEntry, len(batch))
		for i, l := range batch {
			entries[i] = batchEntry{
				Index:      start + i + 1,
				ListingID:  l.ID,
				Offered:    Truncate(l.Description, s.listingTextLimit),
				LookingFor: Truncate(l.LookingForDescription, s.listingTextLimit),
			}
		}

		raw, err := s.chat.Complete(ctx, buildBatchScoringPrompt(userWants, userHas, user.OfferFacts, entries))
		if err != nil {
			if IsQuotaError(err) {
				log.Printf("❌ Model quota/billing error, aborting remaining semantic batches: %v", err)
				semanticBatchesTotal.WithLabelValues("quota_aborted").Inc()
				return scores
			}
			log.Printf("⚠️ Semantic batch %d-%d failed, using floor scores: %v", start+1, end, err)
			semanticBatchesTotal.WithLabelValues("failed").Inc()
			continue
		}

		if s.applyBatch(scores, entries, raw) {
			semanticBatchesTotal.WithLabelValues("ok").Inc()
		} else {
			semanticBatchesTotal.WithLabelValues("parse_error").Inc()
		}
	}

	return scores
}

// shouldScore decides whether a model call can produce anything useful:
// the user needs at least one real free-text field and at least one listing
// must have free text to compare against.
func (s *SemanticScorer) shouldScore(user SemanticInput, pool []listings.Listing) bool {
	if len(strings.TrimSpace(user.LookingFor)) < s.minText &&
		len(strings.TrimSpace(user.Offered)) < s.minText {
		return false
	}

	for _, l := range pool {
		if strings.TrimSpace(l.Description) != "" || strings.TrimSpace(l.LookingForDescription) != "" {
			return true
		}
	}
	return false
}

type batchResult struct {
	ListingIndex           int      `json:"listingIndex"`
	Score                  float64  `json:"score"`
	WhatYouWantAndTheyHave []string `json:"whatYouWantAndTheyHave"`
	WhatYouHaveAndTheyWant []string `json:"whatYouHaveAndTheyWant"`
}

// applyBatch parses one model response and writes its scores into the result
// map. A response that is not a JSON array leaves the batch at floor scores.
func (s *SemanticScorer) applyBatch(scores map[string]SemanticScore, entries []batchEntry, raw string) bool {
	var results []batchResult
	if err := json.Unmarshal([]byte(StripFences(raw)), &results); err != nil {
		log.Printf("⚠️ Semantic batch response was not a JSON array, using floor scores: %v", err)
		return false
	}

	byIndex := make(map[int]batchEntry, len(entries))
	for _, e := range entries {
		byIndex[e.Index] = e
	}

	for _, r := range results {
		entry, ok := byIndex[r.ListingIndex]
		if !ok {
			log.Printf("⚠️ Semantic result references unknown listing index %d, dropping", r.ListingIndex)
			continue
		}

		scores[entry.ListingID] = SemanticScore{
			Score:                  clampScore(r.Score),
			WhatYouWantAndTheyHave: stripMisdirected(r.WhatYouWantAndTheyHave, wantBucketViolations),
			WhatYouHaveAndTheyWant: stripMisdirected(r.WhatYouHaveAndTheyWant, haveBucketViolations),
		}
	}
	return true
}

func clampScore(score float64) int {
	rounded := int(math.Round(score))
	if rounded < FloorScore {
		return FloorScore
	}
	if rounded > 10 {
		return 10
	}
	return rounded
}

// The prompt forbids cross-contaminating the two reason buckets, but the
// model is not always obedient. These phrase lists catch bullets that talk
// about the wrong side's apartment so they can be dropped after parsing.
var (
	haveBucketViolations = []string{
		"they currently have",
		"they currently live",
		"their current apartment",
		"their apartment has",
		"they offer",
		"the listing offers",
	}
	wantBucketViolations = []string{
		"you currently have",
		"your current apartment",
		"your apartment has",
		"you offer",
	}
)

func stripMisdirected(bullets []string, violations []string) []string {
	kept := bullets[:0]
	for _, bullet := range bullets {
		lower := strings.ToLower(bullet)
		misdirected := false
		for _, phrase := range violations {
			if strings.Contains(lower, phrase) {
				misdirected = true
				break
			}
		}
		if !misdirected {
			kept = append(kept, bullet)
		}
	}
	return kept
}
