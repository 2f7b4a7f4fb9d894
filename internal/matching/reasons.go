// internal/matching/reasons.go
// Rule-based explanations for why a match scored the way it did

package matching

import (
	"fmt"
	"strings"

	"github.com/kiezswap/kiezswap-backend/internal/ai"
	"github.com/kiezswap/kiezswap-backend/internal/listings"
	"github.com/kiezswap/kiezswap-backend/internal/profile"
)

const maxReasonsPerBucket = 6

// TheirApartmentReasons explains why the listing suits the user. Only the
// listing's facts and the user's stated wishes appear here, never the user's
// own apartment.
func TheirApartmentReasons(user *profile.UserProfile, listing *listings.Listing, prefs ai.ExtractedPreferences) []string {
	var reasons []string
	want := user.LookingFor

	if want.MaxColdRent != nil && *want.MaxColdRent > 0 && listing.ColdRent > 0 {
		ratio := *want.MaxColdRent / listing.ColdRent
		if ratio >= 1.0 {
			reasons = append(reasons, fmt.Sprintf("Within your budget: €%.0f cold rent (your max: €%.0f)", listing.ColdRent, *want.MaxColdRent))
		} else if ratio >= 0.9 {
			reasons = append(reasons, fmt.Sprintf("Close to your budget: €%.0f cold rent (your max: €%.0f)", listing.ColdRent, *want.MaxColdRent))
		}
	}

	if want.MinRooms != nil && *want.MinRooms > 0 && listing.Rooms > 0 {
		diff := listing.Rooms - *want.MinRooms
		if diff >= 0 && diff <= 2 {
			reasons = append(reasons, fmt.Sprintf("Has %s rooms (you wanted at least %s)", formatNumber(listing.Rooms), formatNumber(*want.MinRooms)))
		} else if diff >= -1 && diff < 0 {
			reasons = append(reasons, fmt.Sprintf("Slightly fewer rooms than you asked for: %s instead of %s", formatNumber(listing.Rooms), formatNumber(*want.MinRooms)))
		}
	}

	if listing.District != "" && len(want.Districts) > 0 {
		if exact, target := districtMatch(want.Districts, listing.District); exact {
			reasons = append(reasons, fmt.Sprintf("Located in %s, one of your target districts", listing.District))
		} else if target != "" {
			reasons = append(reasons, fmt.Sprintf("%s borders your target district %s", listing.District, target))
		}
	}

	if want.Type != "" && strings.EqualFold(want.Type, listing.Type) {
		reasons = append(reasons, fmt.Sprintf("Apartment type matches: %s", listing.Type))
	}

	if want.MinSquareMeters != nil && *want.MinSquareMeters > 0 && listing.SquareMeters >= *want.MinSquareMeters {
		reasons = append(reasons, fmt.Sprintf("Offers %.0f m² (you wanted at least %.0f m²)", listing.SquareMeters, *want.MinSquareMeters))
	}

	if want.Balcony && listing.BalconyOrTerrace {
		reasons = append(reasons, "Has the balcony or terrace you want")
	}

	if (want.PetsAllowed || prefs.PetFriendly) && listing.PetsAllowed {
		reasons = append(reasons, "Pets are allowed")
	}

	// Flavor from the free-text preferences: only when structured fields did
	// not already cover the same ground.
	if len(prefs.PreferredDistricts) > 0 && len(want.Districts) == 0 {
		if exact, _ := districtMatch(prefs.PreferredDistricts, listing.District); exact {
			reasons = append(reasons, fmt.Sprintf("In %s, which your description mentions", listing.District))
		}
	}
	if prefs.MaxRent > 0 && want.MaxColdRent == nil && listing.ColdRent > 0 && listing.ColdRent <= prefs.MaxRent {
		reasons = append(reasons, fmt.Sprintf("Fits the budget from your description (€%.0f)", prefs.MaxRent))
	}

	if len(reasons) > maxReasonsPerBucket {
		reasons = reasons[:maxReasonsPerBucket]
	}
	return reasons
}

// YourApartmentReasons explains why the user's apartment suits the listing
// author. What the author wants is taken from, in order of reliability: the
// listing's structured search criteria, criteria inferred from its free text,
// or as a last resort the listing's own current apartment as a proxy for
// unexpressed expectations ("they live in 2 rooms, so assume they want at
// least 2"). Proxy-based bullets are phrased tentatively because they rest on
// an assumption, not on anything the author said.
func YourApartmentReasons(user *profile.UserProfile, listing *listings.Listing, inference CriteriaInference) []string {
	criteria := listing.SearchCriteria
	if criteria == nil && inference != nil {
		criteria = inference.Infer(listing.LookingForDescription)
	}

	inferred := false
	if criteria == nil {
		criteria = proxyCriteria(listing)
		inferred = true
	}
	if criteria == nil {
		return nil
	}

	var reasons []string
	have := user.MyApartment

	if criteria.MinRooms != nil && have.Rooms != nil && *have.Rooms >= *criteria.MinRooms {
		if inferred {
			reasons = append(reasons, fmt.Sprintf("You offer %s rooms, likely enough for them", formatNumber(*have.Rooms)))
		} else {
			reasons = append(reasons, fmt.Sprintf("You offer %s rooms (they want at least %s)", formatNumber(*have.Rooms), formatNumber(*criteria.MinRooms)))
		}
	}

	if criteria.MinSquareMeters != nil && have.SquareMeters != nil && *have.SquareMeters >= *criteria.MinSquareMeters {
		if inferred {
			reasons = append(reasons, fmt.Sprintf("Your %.0f m² would likely not feel like a downgrade to them", *have.SquareMeters))
		} else {
			reasons = append(reasons, fmt.Sprintf("Your %.0f m² meets their minimum of %.0f m²", *have.SquareMeters, *criteria.MinSquareMeters))
		}
	}

	if criteria.MaxColdRent != nil && have.ColdRent != nil && *have.ColdRent <= *criteria.MaxColdRent {
		reasons = append(reasons, fmt.Sprintf("Your rent of €%.0f is within what they can pay (max €%.0f)", *have.ColdRent, *criteria.MaxColdRent))
	}

	if len(criteria.Districts) > 0 {
		location := strings.ToLower(have.Street + " " + have.Description)
		for _, district := range criteria.Districts {
			if strings.Contains(location, strings.ToLower(district)) {
				reasons = append(reasons, fmt.Sprintf("Your apartment is in %s, where they want to move", district))
				break
			}
		}
	}

	if criteria.Balcony != nil && *criteria.Balcony && have.Balcony {
		reasons = append(reasons, "Your balcony matches what they are looking for")
	}

	if criteria.PetsAllowed != nil && *criteria.PetsAllowed && have.PetsAllowed {
		reasons = append(reasons, "Pets are allowed in your apartment, which they need")
	}

	if len(reasons) > maxReasonsPerBucket {
		reasons = reasons[:maxReasonsPerBucket]
	}
	return reasons
}

// proxyCriteria assumes the listing author wants at least what they already
// have. Weak evidence, used only when the listing states nothing at all.
func proxyCriteria(listing *listings.Listing) *listings.SearchCriteria {
	if listing.Rooms <= 0 && listing.SquareMeters <= 0 {
		return nil
	}

	criteria := &listings.SearchCriteria{}
	if listing.Rooms > 0 {
		rooms := listing.Rooms
		criteria.MinRooms = &rooms
	}
	if listing.SquareMeters > 0 {
		size := listing.SquareMeters
		criteria.MinSquareMeters = &size
	}
	return criteria
}

// districtMatch reports an exact hit, or the first related target when there
// is no exact one.
func districtMatch(targets []string, district string) (bool, string) {
	for _, target := range targets {
		if strings.EqualFold(target, district) {
			return true, target
		}
	}
	for _, target := range targets {
		if districtsRelated(target, district) {
			return false, target
		}
	}
	return false, ""
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
