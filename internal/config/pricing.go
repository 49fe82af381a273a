package config

import "github.com/petrolfinder/backend-go/internal/models"

// FuelAdjustment is a per-fuel-type price delta applied on top of the
// official baseline.
type FuelAdjustment struct {
	Regular float64
	Premium float64
	Diesel  float64
}

// Get returns the delta for a fuel type.
func (a FuelAdjustment) Get(ft models.FuelType) float64 {
	switch ft {
	case models.FuelPremium:
		return a.Premium
	case models.FuelDiesel:
		return a.Diesel
	default:
		return a.Regular
	}
}

// PricingConfig holds the heuristic tables used by the price estimator.
// Tables are injectable so regional retuning and test substitution need no
// code change.
type PricingConfig struct {
	// Known brand keywords that imply full amenities on external candidates.
	AmenityBrands []string

	// Brand keyword -> per-fuel adjustment.
	BrandAdjustments map[string]FuelAdjustment

	// Address keyword classes.
	HighwayKeywords  []string
	CityKeywords     []string
	TownshipKeywords []string

	HighwayAdjustment  FuelAdjustment
	CityAdjustment     FuelAdjustment
	TownshipAdjustment FuelAdjustment

	// Rating-bucket adjustments: >=4.5, >=4.0, >=3.5, <3.0.
	QualityExcellentAdjustment FuelAdjustment
	QualityGoodAdjustment      FuelAdjustment
	QualityFairAdjustment      FuelAdjustment
	QualityPoorAdjustment      FuelAdjustment

	// Province keyword (city names) -> per-fuel fallback baseline offset.
	ProvinceCities      map[string][]string
	ProvinceAdjustments map[string]FuelAdjustment

	// Hardcoded baseline defaults, used when every scrape source fails.
	DefaultBaselines models.BaselinePrices

	// Plausibility band for scraped or estimated prices.
	MinPlausiblePrice float64
	MaxPlausiblePrice float64

	// Bounded random jitter applied to estimated prices.
	JitterRange float64

	// Price-listing pages scraped for official baselines, in priority order.
	BaselineSources []string
}

// DefaultPricingConfig returns the heuristic tables tuned for the South
// African deployment.
func DefaultPricingConfig() *PricingConfig {
	return &PricingConfig{
		AmenityBrands: []string{"shell", "bp", "total", "engen"},

		BrandAdjustments: map[string]FuelAdjustment{
			"shell":  {Regular: 0.15, Premium: 0.20, Diesel: 0.10},
			"bp":     {Regular: 0.12, Premium: 0.18, Diesel: 0.08},
			"total":  {Regular: 0.10, Premium: 0.15, Diesel: 0.05},
			"engen":  {Regular: 0.08, Premium: 0.12, Diesel: 0.03},
			"sasol":  {Regular: 0.05, Premium: 0.08, Diesel: 0.02},
			"caltex": {Regular: 0.07, Premium: 0.10, Diesel: 0.04},
		},

		HighwayKeywords:  []string{"highway", "n1", "n2", "n3", "n4", "freeway"},
		CityKeywords:     []string{"cbd", "city", "center", "central"},
		TownshipKeywords: []string{"township", "rural", "village"},

		HighwayAdjustment:  FuelAdjustment{Regular: 0.20, Premium: 0.25, Diesel: 0.15},
		CityAdjustment:     FuelAdjustment{Regular: 0.10, Premium: 0.12, Diesel: 0.08},
		TownshipAdjustment: FuelAdjustment{Regular: -0.05, Premium: -0.08, Diesel: -0.03},

		QualityExcellentAdjustment: FuelAdjustment{Regular: 0.08, Premium: 0.10, Diesel: 0.05},
		QualityGoodAdjustment:      FuelAdjustment{Regular: 0.05, Premium: 0.07, Diesel: 0.03},
		QualityFairAdjustment:      FuelAdjustment{Regular: 0.02, Premium: 0.03, Diesel: 0.01},
		QualityPoorAdjustment:      FuelAdjustment{Regular: -0.03, Premium: -0.05, Diesel: -0.02},

		ProvinceCities: map[string][]string{
			"western cape":  {"cape town", "stellenbosch", "paarl", "george", "mossel bay"},
			"gauteng":       {"johannesburg", "pretoria", "soweto", "sandton", "roodepoort"},
			"kwazulu-natal": {"durban", "pietermaritzburg", "newcastle", "richards bay"},
			"eastern cape":  {"port elizabeth", "east london", "grahamstown", "uitenhage"},
			"free state":    {"bloemfontein", "welkom", "kroonstad", "bethlehem"},
			"northern cape": {"kimberley", "upington", "springbok", "kathu"},
			"mpumalanga":    {"nelspruit", "witbank", "secunda", "middelburg"},
			"limpopo":       {"polokwane", "tzaneen", "thohoyandou", "mokopane"},
			"north west":    {"mahikeng", "potchefstroom", "klerksdorp", "mmabatho"},
		},

		ProvinceAdjustments: map[string]FuelAdjustment{
			"western cape":  {Regular: -0.10, Premium: -0.10, Diesel: -0.05},
			"gauteng":       {Regular: 0.05, Premium: 0.05, Diesel: 0.03},
			"kwazulu-natal": {Regular: 0.02, Premium: 0.02, Diesel: 0.01},
			"eastern cape":  {Regular: 0.08, Premium: 0.08, Diesel: 0.05},
			"northern cape": {Regular: 0.15, Premium: 0.15, Diesel: 0.10},
			"free state":    {Regular: 0.03, Premium: 0.03, Diesel: 0.02},
			"mpumalanga":    {Regular: 0.05, Premium: 0.05, Diesel: 0.03},
			"limpopo":       {Regular: 0.12, Premium: 0.12, Diesel: 0.08},
			"north west":    {Regular: 0.07, Premium: 0.07, Diesel: 0.04},
		},

		DefaultBaselines: models.BaselinePrices{
			Regular: 23.50,
			Premium: 24.20,
			Diesel:  22.80,
			Source:  "fallback_base",
		},

		MinPlausiblePrice: 15.0,
		MaxPlausiblePrice: 35.0,
		JitterRange:       0.10,

		BaselineSources: []string{
			"https://www.fuelprices.co.za/",
			"https://www.aa.co.za/fuel-price",
			"https://www.automobil.co.za/fuel-prices/",
		},
	}
}
