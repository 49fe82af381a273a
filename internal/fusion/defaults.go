package fusion

import (
	"strings"

	"github.com/petrolfinder/backend-go/internal/models"
)

// applyIntelligentDefaults fills amenity, busy-level and wait-time fields on
// an external candidate that matched no stored station, using brand, rating
// and price-level heuristics.
func applyIntelligentDefaults(amenityBrands []string, candidate *models.StationCandidate) {
	candidate.BusyLevel = models.BusyMedium

	nameLower := strings.ToLower(candidate.Name)
	for _, brand := range amenityBrands {
		if strings.Contains(nameLower, brand) {
			candidate.Amenities.ATM = true
			candidate.Amenities.Shop = true
			candidate.Amenities.Coffee = true
			break
		}
	}

	waitTime := 5
	if candidate.Rating != nil && *candidate.Rating >= 4.0 {
		candidate.Amenities.ATM = true
		candidate.Amenities.Shop = true
		waitTime = 2 // better stations turn pumps around faster
	} else if candidate.Rating != nil && *candidate.Rating >= 3.5 {
		waitTime = 3
	}
	candidate.WaitTimeMinutes = &waitTime

	if candidate.PriceLevel != nil && *candidate.PriceLevel >= 3 {
		candidate.Amenities.Coffee = true
		candidate.Amenities.Shop = true
		candidate.Amenities.EVCharging = true
	}
}
