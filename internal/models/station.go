package models

type Source string

const (
	SourceLocal    Source = "local"
	SourceExternal Source = "external"
)

type BusyLevel string

const (
	BusyLow    BusyLevel = "low"
	BusyMedium BusyLevel = "medium"
	BusyHigh   BusyLevel = "high"
)

// AmenityFlags records which extras a station offers.
type AmenityFlags struct {
	ATM        bool `json:"atm"`
	Shop       bool `json:"shop"`
	Coffee     bool `json:"coffee"`
	EVCharging bool `json:"evCharging"`
}

// StationCandidate is a normalized station record from either source,
// before fusion. Candidates are query-scoped and never persisted here.
type StationCandidate struct {
	ID              string            `json:"id,omitempty"`
	ExternalID      string            `json:"externalId,omitempty"`
	Name            string            `json:"name"`
	Address         string            `json:"address"`
	City            string            `json:"city,omitempty"`
	Latitude        float64           `json:"latitude"`
	Longitude       float64           `json:"longitude"`
	HasCoords       bool              `json:"-"`
	DistanceKm      float64           `json:"distanceKm"`
	HasDistance     bool              `json:"-"`
	Source          Source            `json:"source"`
	Rating          *float64          `json:"rating,omitempty"`
	PriceLevel      *int              `json:"priceLevel,omitempty"`
	IsOpenNow       *bool             `json:"isOpenNow,omitempty"`
	Is24h           bool              `json:"is24h,omitempty"`
	Amenities       AmenityFlags      `json:"amenities"`
	BusyLevel       BusyLevel         `json:"busyLevel,omitempty"`
	WaitTimeMinutes *int              `json:"waitTimeMinutes,omitempty"`
	OpeningHours    map[string]string `json:"openingHours,omitempty"`
	Photos          []string          `json:"photos,omitempty"`
}

// FusedStationRecord is a StationCandidate after dedup and price enrichment.
// At most one PriceEstimate per fuel type.
type FusedStationRecord struct {
	StationCandidate
	Prices           []PriceEstimate `json:"prices"`
	HasPriceData     bool            `json:"hasPriceData"`
	ReliabilityScore float64         `json:"reliabilityScore"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// StationResponse is the stable frontend-facing shape produced by the
// formatter. Field names are part of the client contract.
type StationResponse struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Address          string      `json:"address"`
	Distance         float64     `json:"distance"`
	Rating           *float64    `json:"rating"`
	Coordinates      Coordinates `json:"coordinates"`
	RegularPrice     *float64    `json:"regularPrice"`
	PremiumPrice     *float64    `json:"premiumPrice"`
	DieselPrice      *float64    `json:"dieselPrice"`
	IsOpen           bool        `json:"isOpen"`
	HasATM           bool        `json:"hasATM"`
	HasShop          bool        `json:"hasShop"`
	HasCoffee        bool        `json:"hasCoffee"`
	HasEVCharging    bool        `json:"hasEVCharging"`
	BusyLevel        string      `json:"busyLevel"`
	WaitTime         int         `json:"waitTime"`
	Source           string      `json:"source"`
	HasPriceData     bool        `json:"has_price_data"`
	ReliabilityScore float64     `json:"reliability_score"`
	Photos           []string    `json:"photos"`
}
