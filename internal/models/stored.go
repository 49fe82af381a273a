package models

// StoredStation is the persisted station record in the station table.
// Coordinates are pointers: imported rows with missing or unparsable
// coordinates are kept but skipped by the local source.
type StoredStation struct {
	ID             string            `json:"id" dynamodbav:"id"`
	ExternalID     string            `json:"externalId,omitempty" dynamodbav:"externalId,omitempty"`
	Name           string            `json:"name" dynamodbav:"name"`
	Address        string            `json:"address" dynamodbav:"address"`
	City           string            `json:"city,omitempty" dynamodbav:"city,omitempty"`
	Latitude       *float64          `json:"latitude" dynamodbav:"latitude"`
	Longitude      *float64          `json:"longitude" dynamodbav:"longitude"`
	IsActive       bool              `json:"isActive" dynamodbav:"isActive"`
	Is24h          bool              `json:"is24h" dynamodbav:"is24h"`
	HasATM         bool              `json:"hasAtm" dynamodbav:"hasAtm"`
	HasShop        bool              `json:"hasShop" dynamodbav:"hasShop"`
	HasCoffee      bool              `json:"hasCoffee" dynamodbav:"hasCoffee"`
	HasEVCharging  bool              `json:"hasEvCharging" dynamodbav:"hasEvCharging"`
	BusyLevel      BusyLevel         `json:"busyLevel,omitempty" dynamodbav:"busyLevel,omitempty"`
	WaitTime       *int              `json:"waitTime,omitempty" dynamodbav:"waitTime,omitempty"`
	ExternalRating *float64          `json:"externalRating,omitempty" dynamodbav:"externalRating,omitempty"`
	OpeningHours   map[string]string `json:"openingHours,omitempty" dynamodbav:"openingHours,omitempty"`
	LastUpdated    int64             `json:"lastUpdated" dynamodbav:"lastUpdated"`
}
