package price

import (
	"testing"

	"github.com/petrolfinder/backend-go/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestBrandAdjustment(t *testing.T) {
	pricing := config.DefaultPricingConfig()

	shell := brandAdjustment(pricing, "Shell Sandton City")
	assert.Equal(t, 0.15, shell.Regular)
	assert.Equal(t, 0.20, shell.Premium)
	assert.Equal(t, 0.10, shell.Diesel)

	unknown := brandAdjustment(pricing, "Joe's Fuel Stop")
	assert.Equal(t, config.FuelAdjustment{}, unknown)
}

func TestLocationAdjustment(t *testing.T) {
	pricing := config.DefaultPricingConfig()

	tests := []struct {
		name     string
		address  string
		expected config.FuelAdjustment
	}{
		{name: "highway", address: "N1 Highway, Midrand", expected: pricing.HighwayAdjustment},
		{name: "city center", address: "12 Commissioner St, CBD", expected: pricing.CityAdjustment},
		{name: "township", address: "Main Rd, Alexandra Township", expected: pricing.TownshipAdjustment},
		{name: "highway beats city", address: "N3 Freeway near City Center", expected: pricing.HighwayAdjustment},
		{name: "plain suburb", address: "45 Oak Avenue, Randburg", expected: config.FuelAdjustment{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, locationAdjustment(pricing, tt.address))
		})
	}
}

func TestQualityAdjustment(t *testing.T) {
	pricing := config.DefaultPricingConfig()
	rate := func(r float64) *float64 { return &r }

	tests := []struct {
		name     string
		rating   *float64
		expected config.FuelAdjustment
	}{
		{name: "excellent", rating: rate(4.7), expected: pricing.QualityExcellentAdjustment},
		{name: "good", rating: rate(4.0), expected: pricing.QualityGoodAdjustment},
		{name: "fair", rating: rate(3.6), expected: pricing.QualityFairAdjustment},
		{name: "poor", rating: rate(2.5), expected: pricing.QualityPoorAdjustment},
		{name: "middling gets nothing", rating: rate(3.2), expected: config.FuelAdjustment{}},
		{name: "missing gets nothing", rating: nil, expected: config.FuelAdjustment{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, qualityAdjustment(pricing, tt.rating))
		})
	}
}

func TestExtractProvince(t *testing.T) {
	pricing := config.DefaultPricingConfig()

	tests := []struct {
		name     string
		city     string
		address  string
		expected string
	}{
		{name: "city field", city: "Johannesburg", address: "", expected: "gauteng"},
		{name: "address field", city: "", address: "23 Beach Rd, Cape Town", expected: "western cape"},
		{name: "unknown", city: "Windhoek", address: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractProvince(pricing, tt.city, tt.address))
		})
	}
}
