// internal/matching/inference.go
// Best-effort extraction of structured criteria from free text

package matching

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kiezswap/kiezswap-backend/internal/listings"
)

// CriteriaInference guesses structured search criteria from a listing's
// free-text "looking for" description. It is a fuzzy heuristic kept behind
// this interface so it can be swapped out without touching the scorer or the
// reason generator.
type CriteriaInference interface {
	Infer(text string) *listings.SearchCriteria
}

type regexInference struct{}

// NewRegexInference returns the pattern-based default inference. It handles
// both German and English phrasings as they appear on Berlin swap listings.
func NewRegexInference() CriteriaInference {
	return regexInference{}
}

var (
	minRoomsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:at least|mind\.?|mindestens|ab)\s*(\d+(?:[.,]\d+)?)\s*(?:rooms?|zimmer)`),
		regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*\+\s*(?:rooms?|zimmer)`),
		regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:rooms?|zimmer)`),
	}
	minSizePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:at least|mind\.?|mindestens|ab)\s*(\d+)\s*(?:m²|m2|qm|sqm)`),
		regexp.MustCompile(`(?i)(\d+)\s*(?:m²|m2|qm|sqm)`),
	}
	maxRentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:max\.?|maximal|bis|up to|under|höchstens)\s*(?:€\s*)?(\d{3,4})(?:\s*(?:€|euro?))?`),
		regexp.MustCompile(`(?i)€\s*(\d{3,4})`),
		regexp.MustCompile(`(?i)(\d{3,4})\s*(?:€|euro)`),
	}
	petsPattern    = regexp.MustCompile(`(?i)\b(?:pets?|haustier\w*|hund\w*|katze\w*)\b`)
	balconyPattern = regexp.MustCompile(`(?i)\b(?:balcony|balkon\w*|terrace|terrasse)\b`)
)

// berlinDistricts covers the twelve boroughs plus the neighborhood names
// people actually write in listings.
var berlinDistricts = []string{
	"Mitte", "Friedrichshain-Kreuzberg", "Pankow", "Charlottenburg-Wilmersdorf",
	"Spandau", "Steglitz-Zehlendorf", "Tempelhof-Schöneberg", "Neukölln",
	"Treptow-Köpenick", "Marzahn-Hellersdorf", "Lichtenberg", "Reinickendorf",
	"Kreuzberg", "Friedrichshain", "Prenzlauer Berg", "Charlottenburg",
	"Wilmersdorf", "Schöneberg", "Tempelhof", "Wedding", "Moabit",
	"Treptow", "Köpenick", "Steglitz", "Zehlendorf",
}

func (regexInference) Infer(text string) *listings.SearchCriteria {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	criteria := &listings.SearchCriteria{}
	found := false

	for _, p := range minRoomsPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil && v > 0 && v < 20 {
				criteria.MinRooms = &v
				found = true
			}
			break
		}
	}

	for _, p := range minSizePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
				criteria.MinSquareMeters = &v
				found = true
			}
			break
		}
	}

	for _, p := range maxRentPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
				criteria.MaxColdRent = &v
				found = true
			}
			break
		}
	}

	lower := strings.ToLower(text)
	for _, district := range berlinDistricts {
		if strings.Contains(lower, strings.ToLower(district)) {
			criteria.Districts = append(criteria.Districts, district)
			found = true
		}
	}

	if petsPattern.MatchString(text) {
		yes := true
		criteria.PetsAllowed = &yes
		found = true
	}
	if balconyPattern.MatchString(text) {
		yes := true
		criteria.Balcony = &yes
		found = true
	}

	if !found {
		return nil
	}
	return criteria
}
