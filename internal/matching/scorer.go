// internal/matching/scorer.go
// Deterministic weighted scoring of a listing against a user's requirements

package matching

import (
	"strings"

	"github.com/kiezswap/kiezswap-backend/internal/listings"
	"github.com/kiezswap/kiezswap-backend/internal/profile"
)

// Criterion weights. They only matter relative to each other: every criterion
// that can be evaluated adds its weight to the achievable maximum, so missing
// data on either side narrows the comparison instead of dragging the score
// down.
const (
	rentWeight     = 35.0
	roomsWeight    = 30.0
	districtWeight = 20.0
	typeWeight     = 10.0
	sizeWeight     = 5.0
)

// StructuredScore returns a percentage in [0,100] for how well the listing
// fits what the user is looking for. Returns 0 when no criterion is
// comparable on both sides.
func StructuredScore(user *profile.UserProfile, listing *listings.Listing) float64 {
	var score, maxPossible float64

	want := user.LookingFor

	if want.MaxColdRent != nil && *want.MaxColdRent > 0 && listing.ColdRent > 0 {
		maxPossible += rentWeight
		score += rentScore(*want.MaxColdRent / listing.ColdRent)
	}

	if want.MinRooms != nil && *want.MinRooms > 0 && listing.Rooms > 0 {
		maxPossible += roomsWeight
		score += roomsScore(listing.Rooms - *want.MinRooms)
	}

	if len(want.Districts) > 0 && listing.District != "" {
		maxPossible += districtWeight
		score += districtScore(want.Districts, listing.District)
	}

	if want.Type != "" && listing.Type != "" {
		maxPossible += typeWeight
		if strings.EqualFold(want.Type, listing.Type) {
			score += typeWeight
		} else {
			score += 2
		}
	}

	if want.MinSquareMeters != nil && *want.MinSquareMeters > 0 && listing.SquareMeters > 0 {
		maxPossible += sizeWeight
		score += sizeScore(listing.SquareMeters / *want.MinSquareMeters)
	}

	if maxPossible == 0 {
		return 0
	}
	return 100 * score / maxPossible
}

// rentScore rewards being under budget more than it punishes being over:
// up to 20% over budget still earns partial credit.
func rentScore(ratio float64) float64 {
	switch {
	case ratio >= 1.2:
		return 35
	case ratio >= 1.0:
		return 30
	case ratio >= 0.9:
		return 22
	case ratio >= 0.8:
		return 12
	case ratio >= 0.7:
		return 5
	default:
		return 0
	}
}

// roomsScore is deliberately asymmetric: one room more than asked is worth
// far more than one room less, and extra rooms have diminishing reward.
func roomsScore(diff float64) float64 {
	switch {
	case diff >= 3:
		return 20
	case diff >= 2:
		return 24
	case diff >= 1:
		return 28
	case diff >= 0:
		return 30
	case diff >= -1:
		return 18
	case diff >= -2:
		return 8
	default:
		return 0
	}
}

// districtScore never returns zero: any Berlin listing keeps some residual
// credit even outside the user's target districts.
func districtScore(targets []string, district string) float64 {
	for _, target := range targets {
		if strings.EqualFold(target, district) {
			return 20
		}
	}
	for _, target := range targets {
		if districtsRelated(target, district) {
			return 12
		}
	}
	return 3
}

func sizeScore(ratio float64) float64 {
	switch {
	case ratio >= 1.3:
		return 5
	case ratio >= 1.0:
		return 4
	default:
		return 0
	}
}

// districtsRelated catches compound district names: "Kreuzberg" relates to
// "Friedrichshain-Kreuzberg" because they share a token after splitting on
// hyphens and spaces.
func districtsRelated(a, b string) bool {
	for _, tokenA := range districtTokens(a) {
		for _, tokenB := range districtTokens(b) {
			if tokenA == tokenB {
				return true
			}
		}
	}
	return false
}

func districtTokens(district string) []string {
	fields := strings.FieldsFunc(strings.ToLower(district), func(r rune) bool {
		return r == '-' || r == ' '
	})
	tokens := fields[:0]
	for _, f := range fields {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
