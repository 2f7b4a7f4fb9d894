// internal/matching/service.go
// The find-matches orchestrator

package matching

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kiezswap/kiezswap-backend/internal/ai"
	"github.com/kiezswap/kiezswap-backend/internal/config"
	"github.com/kiezswap/kiezswap-backend/internal/listings"
	"github.com/kiezswap/kiezswap-backend/internal/profile"
)

var ErrMissingUserID = errors.New("user id is required")

// The orchestrator over-fetches candidates so that threshold filtering still
// leaves enough results to fill the requested limit.
const minCandidatePool = 30

// PreferenceExtractor and SemanticScorer are the two model-backed
// collaborators, kept as interfaces so tests can substitute mocks.
type PreferenceExtractor interface {
	Extract(ctx context.Context, description string) ai.ExtractedPreferences
}

type SemanticScorer interface {
	ScoreListings(ctx context.Context, user ai.SemanticInput, pool []listings.Listing) map[string]ai.SemanticScore
}

type Service interface {
	FindMatches(ctx context.Context, req *FindMatchesRequest) ([]MatchResult, error)
}

type service struct {
	users        profile.Repository
	listings     listings.Repository
	extractor    PreferenceExtractor
	semantic     SemanticScorer
	inference    CriteriaInference
	minScore     int
	defaultLimit int
}

func NewService(
	users profile.Repository,
	listingsRepo listings.Repository,
	extractor PreferenceExtractor,
	semantic SemanticScorer,
	inference CriteriaInference,
	cfg *config.Config,
) Service {
	return &service{
		users:        users,
		listings:     listingsRepo,
		extractor:    extractor,
		semantic:     semantic,
		inference:    inference,
		minScore:     cfg.MinMatchScore,
		defaultLimit: cfg.DefaultMatchLimit,
	}
}

// FindMatches runs the full pipeline: candidate fetch, preference
// extraction, structured scoring with reasons, semantic scoring, combination
// and ranking. Missing users or an empty candidate pool yield an empty
// result, not an error; only a failing listings query is surfaced.
func (s *service) FindMatches(ctx context.Context, req *FindMatchesRequest) ([]MatchResult, error) {
	start := time.Now()

	if req.UserID == "" && req.Profile == nil {
		return nil, ErrMissingUserID
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	user := req.Profile
	if user == nil {
		var err error
		user, err = s.users.GetProfile(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, profile.ErrUserNotFound) {
				log.Printf("ℹ️ Match request for unknown user %s, returning no matches", req.UserID)
				matchRequestsTotal.WithLabelValues("no_user").Inc()
				return []MatchResult{}, nil
			}
			matchRequestsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("failed to load user profile: %w", err)
		}
	}

	fetchCount := limit * 2
	if fetchCount < minCandidatePool {
		fetchCount = minCandidatePool
	}

	candidates, err := s.listings.FindListings(ctx, req.Filters, fetchCount)
	if err != nil {
		matchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load candidate listings: %w", err)
	}
	if len(candidates) == 0 {
		matchRequestsTotal.WithLabelValues("no_listings").Inc()
		return []MatchResult{}, nil
	}

	prefs := s.extractor.Extract(ctx, lookingForDescription(user))

	pool := make([]listings.Listing, len(candidates))
	for i, l := range candidates {
		pool[i] = *l
	}

	semScores := s.semantic.ScoreListings(ctx, ai.SemanticInput{
		LookingFor: user.LookingFor.Description,
		Offered:    user.MyApartment.Description,
		OfferFacts: offerFacts(user),
	}, pool)

	results := make([]MatchResult, 0, len(pool))
	for i := range pool {
		listing := &pool[i]

		structuredPct := StructuredScore(user, listing)
		structured := NormalizeStructured(structuredPct)

		sem, ok := semScores[listing.ID]
		if !ok {
			sem = ai.SemanticScore{Score: ai.FloorScore}
		}

		combined := CombineScores(structured, sem.Score)
		matchCombinedScore.Observe(float64(combined))

		results = append(results, MatchResult{
			Listing:         *listing,
			StructuredScore: structured,
			SemanticScore:   sem.Score,
			CombinedScore:   combined,
			Reasons: ReasonBreakdown{
				TheirApartment: ReasonBucket{
					Structured: TheirApartmentReasons(user, listing, prefs),
					Semantic:   sem.WhatYouWantAndTheyHave,
				},
				YourApartment: ReasonBucket{
					Structured: YourApartmentReasons(user, listing, s.inference),
					Semantic:   sem.WhatYouHaveAndTheyWant,
				},
			},
		})
	}

	ranked := RankResults(results, s.minScore, limit)

	matchRequestsTotal.WithLabelValues("ok").Inc()
	matchDuration.Observe(time.Since(start).Seconds())
	matchResultsReturned.Observe(float64(len(ranked)))

	return ranked, nil
}

// lookingForDescription prefers the user's free text; when they left it
// blank, a sentence is synthesized from the structured fields so preference
// extraction still has something to work with.
func lookingForDescription(user *profile.UserProfile) string {
	if desc := strings.TrimSpace(user.LookingFor.Description); desc != "" {
		return desc
	}

	want := user.LookingFor
	var parts []string
	if want.Type != "" {
		parts = append(parts, want.Type)
	}
	if want.MinRooms != nil && *want.MinRooms > 0 {
		parts = append(parts, fmt.Sprintf("at least %s rooms", formatNumber(*want.MinRooms)))
	}
	if want.MinSquareMeters != nil && *want.MinSquareMeters > 0 {
		parts = append(parts, fmt.Sprintf("at least %.0f m²", *want.MinSquareMeters))
	}
	if want.MaxColdRent != nil && *want.MaxColdRent > 0 {
		parts = append(parts, fmt.Sprintf("max €%.0f cold rent", *want.MaxColdRent))
	}
	if len(want.Districts) > 0 {
		parts = append(parts, "in "+strings.Join(want.Districts, ", "))
	}
	if want.Balcony {
		parts = append(parts, "with balcony")
	}
	if want.PetsAllowed {
		parts = append(parts, "pets allowed")
	}

	if len(parts) == 0 {
		return ""
	}
	return "Looking for an apartment: " + strings.Join(parts, ", ")
}

// offerFacts summarizes the user's apartment from structured fields. The
// semantic prompt tells the model to trust these over the free-text
// description when they disagree.
func offerFacts(user *profile.UserProfile) string {
	have := user.MyApartment
	var parts []string
	if have.Rooms != nil && *have.Rooms > 0 {
		parts = append(parts, fmt.Sprintf("%s rooms", formatNumber(*have.Rooms)))
	}
	if have.SquareMeters != nil && *have.SquareMeters > 0 {
		parts = append(parts, fmt.Sprintf("%.0f m²", *have.SquareMeters))
	}
	if have.ColdRent != nil && *have.ColdRent > 0 {
		parts = append(parts, fmt.Sprintf("€%.0f cold rent", *have.ColdRent))
	}
	if have.Type != "" {
		parts = append(parts, have.Type)
	}
	if have.Balcony {
		parts = append(parts, "balcony")
	}
	if have.PetsAllowed {
		parts = append(parts, "pets allowed")
	}
	return strings.Join(parts, ", ")
}
