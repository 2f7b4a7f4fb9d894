package listings

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Listing is one scraped swap offer. The link is the natural key used for
// deduplication at import time.
type Listing struct {
	ID                    string          `json:"id" db:"id"`
	Link                  string          `json:"link" db:"link"`
	Title                 string          `json:"title" db:"title"`
	District              string          `json:"district" db:"district"`
	Type                  string          `json:"type" db:"type"`
	ColdRent              float64         `json:"coldRent" db:"cold_rent"`
	Rooms                 float64         `json:"rooms" db:"rooms"`
	SquareMeters          float64         `json:"squareMeters" db:"square_meters"`
	Floor                 *int            `json:"floor,omitempty" db:"floor"`
	PetsAllowed           bool            `json:"petsAllowed" db:"pets_allowed"`
	BalconyOrTerrace      bool            `json:"balconyOrTerrace" db:"balcony_or_terrace"`
	Description           string          `json:"description" db:"description"`
	LookingForDescription string          `json:"lookingForDescription" db:"looking_for_description"`
	Images                StringList      `json:"images,omitempty" db:"images"`
	SearchCriteria        *SearchCriteria `json:"searchCriteria,omitempty" db:"search_criteria"`
	CreatedAt             time.Time       `json:"createdAt" db:"created_at"`
}

// SearchCriteria is the optional structured record of what the listing author
// wants in return, when the source site exposes it.
type SearchCriteria struct {
	Districts       []string `json:"districts,omitempty"`
	MaxColdRent     *float64 `json:"maxColdRent,omitempty"`
	MinRooms        *float64 `json:"minRooms,omitempty"`
	MinSquareMeters *float64 `json:"minSquareMeters,omitempty"`
	Balcony         *bool    `json:"balcony,omitempty"`
	PetsAllowed     *bool    `json:"petsAllowed,omitempty"`
}

// IsComplete reports whether the listing carries every field the matcher
// requires. Incomplete listings are rejected at import and swept by the
// cleanup job.
func (l *Listing) IsComplete() bool {
	return l.Link != "" &&
		l.Title != "" &&
		l.District != "" &&
		l.Type != "" &&
		l.ColdRent > 0 &&
		l.Rooms > 0 &&
		l.SquareMeters > 0
}

// Filters narrows the candidate pool before scoring.
type Filters struct {
	MaxRent   *float64 `json:"maxRent,omitempty"`
	MinRooms  *float64 `json:"minRooms,omitempty"`
	MaxRooms  *float64 `json:"maxRooms,omitempty"`
	Districts []string `json:"districts,omitempty"`
	Types     []string `json:"types,omitempty"`
}

// StringList stores a string slice as jsonb.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("listings: cannot scan non-bytes into StringList")
	}
	return json.Unmarshal(b, s)
}

func (c SearchCriteria) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *SearchCriteria) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("listings: cannot scan non-bytes into SearchCriteria")
	}
	return json.Unmarshal(b, c)
}
