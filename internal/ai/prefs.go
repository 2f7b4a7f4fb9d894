// internal/ai/prefs.go
// Preference extraction from free-text search descriptions

package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/kiezswap/kiezswap-backend/internal/config"
)

// ExtractedPreferences is what the model infers from a user's free-text
// search description. It only flavors the generated reasons; the structured
// score never depends on it, so the zero value is a safe fallback.
type ExtractedPreferences struct {
	Quiet               bool     `json:"quiet"`
	NearParks           bool     `json:"nearParks"`
	FamilyFriendly      bool     `json:"familyFriendly"`
	PetFriendly         bool     `json:"petFriendly"`
	NearPublicTransport bool     `json:"nearPublicTransport"`
	NearShopping        bool     `json:"nearShopping"`
	NearRestaurants     bool     `json:"nearRestaurants"`
	Budget              string   `json:"budget"`
	MinRooms            float64  `json:"minRooms"`
	MaxRent             float64  `json:"maxRent"`
	PreferredDistricts  []string `json:"preferredDistricts"`
	Lifestyle           string   `json:"lifestyle"`
}

// Extractor turns free text into ExtractedPreferences via one model call per
// request. Results can optionally be cached in redis keyed by the text
// itself: identical descriptions extract to identical preferences, so a
// content hash is a correct cache key.
type Extractor struct {
	chat         ChatClient
	cache        *redis.Client
	cacheEnabled bool
	cacheTTL     time.Duration
}

func NewExtractor(chat ChatClient, cache *redis.Client, cfg *config.Config) *Extractor {
	return &Extractor{
		chat:         chat,
		cache:        cache,
		cacheEnabled: cfg.PrefsCacheEnabled && cache != nil,
		cacheTTL:     cfg.PrefsCacheTTL,
	}
}

// Extract never fails: any error along the way degrades to the zero-value
// record, which downstream treats as "nothing inferred".
func (e *Extractor) Extract(ctx context.Context, description string) ExtractedPreferences {
	var prefs ExtractedPreferences

	if description == "" || e.chat == nil {
		return prefs
	}

	cacheKey := prefsCacheKey(description)
	if e.cacheEnabled {
		if cached, err := e.cache.Get(ctx, cacheKey).Result(); err == nil {
			if json.Unmarshal([]byte(cached), &prefs) == nil {
				return prefs
			}
		}
	}

	raw, err := e.chat.Complete(ctx, buildPreferencePrompt(description))
	if err != nil {
		log.Printf("⚠️ Preference extraction failed, using defaults: %v", err)
		return ExtractedPreferences{}
	}

	if err := json.Unmarshal([]byte(StripFences(raw)), &prefs); err != nil {
		log.Printf("⚠️ Preference extraction returned unparseable output, using defaults: %v", err)
		return ExtractedPreferences{}
	}

	if e.cacheEnabled {
		if data, err := json.Marshal(prefs); err == nil {
			if err := e.cache.Set(ctx, cacheKey, data, e.cacheTTL).Err(); err != nil {
				log.Printf("⚠️ Failed to cache extracted preferences: %v", err)
			}
		}
	}

	return prefs
}

func prefsCacheKey(description string) string {
	sum := sha256.Sum256([]byte(description))
	return "prefs:" + hex.EncodeToString(sum[:16])
}
