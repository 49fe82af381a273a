package format

import (
	"strings"
	"time"

	"github.com/petrolfinder/backend-go/internal/models"
)

// Heuristic trading hours applied when a station publishes no schedule.
const (
	heuristicOpenHour  = 6
	heuristicCloseHour = 22
)

// Formatter converts fused records into the stable client-facing shape.
// Formatting never fails; missing data maps to nulls or heuristics.
type Formatter struct {
	now func() time.Time
}

func NewFormatter() *Formatter {
	return &Formatter{now: time.Now}
}

// FormatAll converts a ranked record list, preserving order.
func (f *Formatter) FormatAll(records []models.FusedStationRecord) []models.StationResponse {
	responses := make([]models.StationResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, f.Format(record))
	}
	return responses
}

// Format converts one fused record.
func (f *Formatter) Format(record models.FusedStationRecord) models.StationResponse {
	response := models.StationResponse{
		ID:      record.ID,
		Name:    record.Name,
		Address: record.Address,
		Rating:  record.Rating,
		Coordinates: models.Coordinates{
			Lat: record.Latitude,
			Lng: record.Longitude,
		},
		IsOpen:           f.isOpen(record),
		HasATM:           record.Amenities.ATM,
		HasShop:          record.Amenities.Shop,
		HasCoffee:        record.Amenities.Coffee,
		HasEVCharging:    record.Amenities.EVCharging,
		BusyLevel:        string(record.BusyLevel),
		Source:           string(record.Source),
		HasPriceData:     record.HasPriceData,
		ReliabilityScore: record.ReliabilityScore,
		Photos:           record.Photos,
	}

	if response.ID == "" {
		response.ID = record.ExternalID
	}
	if record.HasDistance {
		response.Distance = record.DistanceKm
	}
	if response.BusyLevel == "" {
		response.BusyLevel = string(models.BusyMedium)
	}
	if record.WaitTimeMinutes != nil {
		response.WaitTime = *record.WaitTimeMinutes
	} else {
		response.WaitTime = 5
	}
	if response.Photos == nil {
		response.Photos = []string{}
	}

	for _, estimate := range record.Prices {
		price := estimate.Price
		switch canonicalFuelType(string(estimate.FuelType)) {
		case models.FuelRegular:
			response.RegularPrice = &price
		case models.FuelPremium:
			response.PremiumPrice = &price
		case models.FuelDiesel:
			response.DieselPrice = &price
		}
	}

	return response
}

// canonicalFuelType maps fuel-type synonyms onto the three canonical types.
// Unrecognized names map to regular.
func canonicalFuelType(name string) models.FuelType {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "premium", "premium_petrol":
		return models.FuelPremium
	case "regular", "petrol":
		return models.FuelRegular
	}
	if strings.Contains(normalized, "diesel") {
		return models.FuelDiesel
	}
	return models.FuelRegular
}

// isOpen resolves the open/closed flag from the best available signal:
// an explicit live flag first, then 24-hour status, then the published
// schedule, then a daytime heuristic.
func (f *Formatter) isOpen(record models.FusedStationRecord) bool {
	if record.IsOpenNow != nil {
		return *record.IsOpenNow
	}
	if record.Is24h {
		return true
	}

	now := f.now()
	if len(record.OpeningHours) > 0 {
		weekday := strings.ToLower(now.Weekday().String())
		if hours, ok := record.OpeningHours[weekday]; ok {
			return openPerSchedule(hours, now)
		}
	}

	return now.Hour() >= heuristicOpenHour && now.Hour() < heuristicCloseHour
}

// openPerSchedule interprets one day's schedule entry. Entries are either a
// keyword ("24h", "open", "closed") or an "HH:MM-HH:MM" range. Anything
// unparseable is treated as open.
func openPerSchedule(hours string, now time.Time) bool {
	normalized := strings.ToLower(strings.TrimSpace(hours))
	switch normalized {
	case "24h", "24 hours", "open":
		return true
	case "closed":
		return false
	}

	parts := strings.SplitN(normalized, "-", 2)
	if len(parts) != 2 {
		return true
	}
	open, err := time.Parse("15:04", strings.TrimSpace(parts[0]))
	if err != nil {
		return true
	}
	closeAt, err := time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err != nil {
		return true
	}

	minute := now.Hour()*60 + now.Minute()
	openMinute := open.Hour()*60 + open.Minute()
	closeMinute := closeAt.Hour()*60 + closeAt.Minute()

	if closeMinute <= openMinute {
		// Overnight range, e.g. 22:00-06:00.
		return minute >= openMinute || minute < closeMinute
	}
	return minute >= openMinute && minute < closeMinute
}
