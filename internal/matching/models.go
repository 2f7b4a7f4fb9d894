package matching

import (
	"github.com/kiezswap/kiezswap-backend/internal/listings"
	"github.com/kiezswap/kiezswap-backend/internal/profile"
)

// MatchResult is one scored listing. Computed fresh per request, never
// persisted. The reason buckets are directional: TheirApartment explains why
// the listing suits the user, YourApartment explains why the user's apartment
// suits the listing author. The two must never mix.
type MatchResult struct {
	Listing         listings.Listing `json:"listing"`
	CombinedScore   int              `json:"combinedScore"`
	StructuredScore int              `json:"structuredScore"`
	SemanticScore   int              `json:"semanticScore"`
	Reasons         ReasonBreakdown  `json:"reasons"`
}

type ReasonBreakdown struct {
	TheirApartment ReasonBucket `json:"theirApartment"`
	YourApartment  ReasonBucket `json:"yourApartment"`
}

// ReasonBucket separates deterministic rule-based bullets from the model's
// free-text inferences so the UI can render them differently.
type ReasonBucket struct {
	Structured []string `json:"structured"`
	Semantic   []string `json:"semantic"`
}

// FindMatchesRequest is the payload of the find-matches operation. Callers
// either reference a stored profile by id or inline the full profile; an
// inline profile skips the storage lookup.
type FindMatchesRequest struct {
	UserID  string               `json:"userId" validate:"required_without=Profile"`
	Profile *profile.UserProfile `json:"profile,omitempty"`
	Filters *listings.Filters    `json:"filters,omitempty"`
	Limit   int                  `json:"limit" validate:"gte=0,lte=100"`
}
