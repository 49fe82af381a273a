package models

import "time"

type FuelType string

const (
	FuelRegular FuelType = "regular"
	FuelPremium FuelType = "premium"
	FuelDiesel  FuelType = "diesel"
)

type PriceSource string

const (
	PriceSourceDatabase  PriceSource = "database"
	PriceSourceEstimated PriceSource = "estimated"
	PriceSourceFallback  PriceSource = "fallback"
)

// PriceEstimate is one per-fuel-type price attached to a fused record.
type PriceEstimate struct {
	FuelType   FuelType    `json:"fuelType"`
	Price      float64     `json:"price"`
	Source     PriceSource `json:"source"`
	Confidence float64     `json:"confidence"`
	Timestamp  time.Time   `json:"timestamp"`
}

// RecordedPrice is a price report persisted for a known station.
type RecordedPrice struct {
	StationID     string    `json:"stationId" dynamodbav:"stationId"`
	FuelType      FuelType  `json:"fuelType" dynamodbav:"fuelType"`
	Price         float64   `json:"price" dynamodbav:"price"`
	PreviousPrice *float64  `json:"previousPrice,omitempty" dynamodbav:"previousPrice,omitempty"`
	PriceChange   *float64  `json:"priceChange,omitempty" dynamodbav:"priceChange,omitempty"`
	ReportedAt    time.Time `json:"reportedAt" dynamodbav:"reportedAt,unixtime"`
}

// BaselinePrices holds the official per-fuel-type reference prices used as
// the starting point for estimation.
type BaselinePrices struct {
	Regular     float64   `json:"regular"`
	Premium     float64   `json:"premium"`
	Diesel      float64   `json:"diesel"`
	Source      string    `json:"source"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Get returns the baseline for a fuel type, falling back to the regular
// baseline for unknown types.
func (b BaselinePrices) Get(ft FuelType) float64 {
	switch ft {
	case FuelPremium:
		return b.Premium
	case FuelDiesel:
		return b.Diesel
	default:
		return b.Regular
	}
}
