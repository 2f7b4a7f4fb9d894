package saved

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/kiezswap/kiezswap-backend/internal/listings"
)

// SavedListing is a user's bookmark of a listing, with a snapshot of the
// listing at save time so the bookmark survives re-scrapes.
type SavedListing struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"userId" db:"user_id"`
	ListingID string          `json:"listingId" db:"listing_id"`
	Listing   ListingSnapshot `json:"listing" db:"listing"`
	SavedAt   time.Time       `json:"savedAt" db:"saved_at"`
}

// ListingSnapshot stores the full listing as jsonb.
type ListingSnapshot struct {
	listings.Listing
}

func (s ListingSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s.Listing)
}

func (s *ListingSnapshot) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("saved: cannot scan non-bytes into ListingSnapshot")
	}
	return json.Unmarshal(b, &s.Listing)
}
