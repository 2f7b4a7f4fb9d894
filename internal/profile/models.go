package profile

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// UserProfile holds what a user offers and what they are looking for. Numeric
// fields are parsed once at this boundary; nil means the user left the field
// blank, never zero.
type UserProfile struct {
	ID          string           `json:"id" db:"id"`
	Email       string           `json:"email" db:"email"`
	DisplayName string           `json:"displayName" db:"display_name"`
	MyApartment OfferedApartment `json:"myApartment" db:"my_apartment"`
	LookingFor  LookingFor       `json:"lookingFor" db:"looking_for"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at"`
}

// OfferedApartment describes the apartment the user currently has.
type OfferedApartment struct {
	Type         string   `json:"type,omitempty"`
	Rooms        *float64 `json:"rooms,omitempty"`
	SquareMeters *float64 `json:"squareMeters,omitempty"`
	ColdRent     *float64 `json:"coldRent,omitempty"`
	Floor        *int     `json:"floor,omitempty"`
	Balcony      bool     `json:"balcony"`
	PetsAllowed  bool     `json:"petsAllowed"`
	Street       string   `json:"street,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// LookingFor describes the apartment the user wants in exchange.
type LookingFor struct {
	Type            string   `json:"type,omitempty"`
	MinRooms        *float64 `json:"minRooms,omitempty"`
	MinSquareMeters *float64 `json:"minSquareMeters,omitempty"`
	MaxColdRent     *float64 `json:"maxColdRent,omitempty"`
	Floor           string   `json:"floor,omitempty"`
	Balcony         bool     `json:"balcony"`
	PetsAllowed     bool     `json:"petsAllowed"`
	Districts       []string `json:"districts,omitempty"`
	Description     string   `json:"description,omitempty"`
}

func (a OfferedApartment) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *OfferedApartment) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("profile: cannot scan non-bytes into OfferedApartment")
	}
	return json.Unmarshal(b, a)
}

func (l LookingFor) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *LookingFor) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("profile: cannot scan non-bytes into LookingFor")
	}
	return json.Unmarshal(b, l)
}
