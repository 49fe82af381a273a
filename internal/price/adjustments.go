package price

import (
	"strings"

	"github.com/petrolfinder/backend-go/internal/config"
	"github.com/petrolfinder/backend-go/internal/models"
)

// brandAdjustment returns the per-fuel delta for a known brand keyword found
// in the station name, or zero for unknown brands.
func brandAdjustment(pricing *config.PricingConfig, name string) config.FuelAdjustment {
	nameLower := strings.ToLower(name)
	for brand, adjustment := range pricing.BrandAdjustments {
		if strings.Contains(nameLower, brand) {
			return adjustment
		}
	}
	return config.FuelAdjustment{}
}

// locationAdjustment classifies the address by keyword class. Highway
// stations charge the most, city-center stations a bit less, township and
// rural stations run below baseline.
func locationAdjustment(pricing *config.PricingConfig, address string) config.FuelAdjustment {
	addressLower := strings.ToLower(address)

	if containsAny(addressLower, pricing.HighwayKeywords) {
		return pricing.HighwayAdjustment
	}
	if containsAny(addressLower, pricing.CityKeywords) {
		return pricing.CityAdjustment
	}
	if containsAny(addressLower, pricing.TownshipKeywords) {
		return pricing.TownshipAdjustment
	}
	return config.FuelAdjustment{}
}

// qualityAdjustment buckets the station rating. Missing rating means no
// adjustment.
func qualityAdjustment(pricing *config.PricingConfig, rating *float64) config.FuelAdjustment {
	if rating == nil {
		return config.FuelAdjustment{}
	}

	switch {
	case *rating >= 4.5:
		return pricing.QualityExcellentAdjustment
	case *rating >= 4.0:
		return pricing.QualityGoodAdjustment
	case *rating >= 3.5:
		return pricing.QualityFairAdjustment
	case *rating < 3.0:
		return pricing.QualityPoorAdjustment
	}
	return config.FuelAdjustment{}
}

// extractProvince matches city keywords in the city/address strings against
// the province table.
func extractProvince(pricing *config.PricingConfig, city, address string) string {
	haystack := strings.ToLower(city + " " + address)
	for province, cities := range pricing.ProvinceCities {
		if containsAny(haystack, cities) {
			return province
		}
	}
	return ""
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// applyAdjustment adds a per-fuel delta to baseline prices.
func applyAdjustment(base models.BaselinePrices, adjustment config.FuelAdjustment) models.BaselinePrices {
	base.Regular += adjustment.Regular
	base.Premium += adjustment.Premium
	base.Diesel += adjustment.Diesel
	return base
}
