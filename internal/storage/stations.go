package storage

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/petrolfinder/backend-go/internal/cache"
	"github.com/petrolfinder/backend-go/internal/config"
	"github.com/petrolfinder/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// Matching box for upsert-by-coordinates, roughly 100m in degrees.
const upsertCoordBox = 0.001

// StationStore persists stations and recorded fuel prices in DynamoDB.
type StationStore struct {
	client       cache.DynamoDBClient
	stationTable string
	priceTable   string
}

func NewStationStore(client cache.DynamoDBClient, cacheConfig *config.CacheConfig) *StationStore {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	return &StationStore{
		client:       client,
		stationTable: cacheConfig.StationTable,
		priceTable:   cacheConfig.PriceTable,
	}
}

// QueryBox returns active stations whose stored coordinates fall inside the
// given bounding box. Items that fail to unmarshal are skipped and logged,
// never aborting the batch.
func (s *StationStore) QueryBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]models.StoredStation, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.stationTable),
		FilterExpression: aws.String(
			"isActive = :active AND latitude BETWEEN :minLat AND :maxLat AND longitude BETWEEN :minLng AND :maxLng"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: true},
			":minLat": &types.AttributeValueMemberN{Value: formatFloat(minLat)},
			":maxLat": &types.AttributeValueMemberN{Value: formatFloat(maxLat)},
			":minLng": &types.AttributeValueMemberN{Value: formatFloat(minLng)},
			":maxLng": &types.AttributeValueMemberN{Value: formatFloat(maxLng)},
		},
	}

	var stations []models.StoredStation
	for {
		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scanning station table: %w", err)
		}

		for _, item := range result.Items {
			var station models.StoredStation
			if err := attributevalue.UnmarshalMap(item, &station); err != nil {
				log.Warn().Err(err).Msg("Skipping malformed station item")
				continue
			}
			stations = append(stations, station)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return stations, nil
}

// FindByExternalID returns the station carrying the given external place
// identifier, or nil when none exists.
func (s *StationStore) FindByExternalID(ctx context.Context, externalID string) (*models.StoredStation, error) {
	result, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(s.stationTable),
		FilterExpression: aws.String("externalId = :eid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":eid": &types.AttributeValueMemberS{Value: externalID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("scanning station table by external id: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	var station models.StoredStation
	if err := attributevalue.UnmarshalMap(result.Items[0], &station); err != nil {
		return nil, fmt.Errorf("unmarshaling station: %w", err)
	}
	return &station, nil
}

// Upsert creates or updates a station from an external candidate. Matching
// is by external id first, then by a ~100m coordinate box. Returns true when
// a new station was created.
func (s *StationStore) Upsert(ctx context.Context, candidate models.StationCandidate) (bool, error) {
	existing, err := s.findExisting(ctx, candidate)
	if err != nil {
		return false, err
	}

	if existing != nil {
		merged := mergeStation(*existing, candidate)
		if err := s.put(ctx, merged); err != nil {
			return false, err
		}
		return false, nil
	}

	lat := candidate.Latitude
	lng := candidate.Longitude
	station := models.StoredStation{
		ID:             uuid.NewString(),
		ExternalID:     candidate.ExternalID,
		Name:           candidate.Name,
		Address:        candidate.Address,
		City:           candidate.City,
		Latitude:       &lat,
		Longitude:      &lng,
		IsActive:       true,
		ExternalRating: candidate.Rating,
	}
	if err := s.put(ctx, station); err != nil {
		return false, err
	}
	return true, nil
}

func (s *StationStore) findExisting(ctx context.Context, candidate models.StationCandidate) (*models.StoredStation, error) {
	if candidate.ExternalID != "" {
		existing, err := s.FindByExternalID(ctx, candidate.ExternalID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	// Fall back to a near-duplicate coordinate match.
	nearby, err := s.QueryBox(ctx,
		candidate.Latitude-upsertCoordBox, candidate.Latitude+upsertCoordBox,
		candidate.Longitude-upsertCoordBox, candidate.Longitude+upsertCoordBox)
	if err != nil {
		return nil, err
	}
	if len(nearby) > 0 {
		return &nearby[0], nil
	}
	return nil, nil
}

func mergeStation(existing models.StoredStation, candidate models.StationCandidate) models.StoredStation {
	if candidate.Name != "" {
		existing.Name = candidate.Name
	}
	if candidate.Address != "" {
		existing.Address = candidate.Address
	}
	if candidate.ExternalID != "" {
		existing.ExternalID = candidate.ExternalID
	}
	lat := candidate.Latitude
	lng := candidate.Longitude
	existing.Latitude = &lat
	existing.Longitude = &lng
	if candidate.Rating != nil {
		existing.ExternalRating = candidate.Rating
	}
	existing.IsActive = true
	return existing
}

func (s *StationStore) put(ctx context.Context, station models.StoredStation) error {
	station.LastUpdated = time.Now().Unix()

	item, err := attributevalue.MarshalMap(station)
	if err != nil {
		return fmt.Errorf("marshaling station: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.stationTable),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("putting station in DynamoDB: %w", err)
	}
	return nil
}

// RecentPrices returns price records for a station reported at or after the
// cutoff, newest first.
func (s *StationStore) RecentPrices(ctx context.Context, stationID string, since time.Time) ([]models.RecordedPrice, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.priceTable),
		KeyConditionExpression: aws.String("stationId = :sid AND reportedAt >= :since"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid":   &types.AttributeValueMemberS{Value: stationID},
			":since": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", since.Unix())},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("querying recent prices: %w", err)
	}

	var prices []models.RecordedPrice
	for _, item := range result.Items {
		var price models.RecordedPrice
		if err := attributevalue.UnmarshalMap(item, &price); err != nil {
			log.Warn().Err(err).Str("station_id", stationID).Msg("Skipping malformed price item")
			continue
		}
		prices = append(prices, price)
	}
	return prices, nil
}

// SavePrice stores a new price record, carrying the previous price and delta
// for change tracking.
func (s *StationStore) SavePrice(ctx context.Context, record models.RecordedPrice) error {
	if record.ReportedAt.IsZero() {
		record.ReportedAt = time.Now()
	}

	// Look back far enough to find the last record of this fuel type.
	history, err := s.RecentPrices(ctx, record.StationID, record.ReportedAt.AddDate(0, -1, 0))
	if err == nil {
		for _, prev := range history {
			if prev.FuelType == record.FuelType {
				prevPrice := prev.Price
				change := record.Price - prev.Price
				record.PreviousPrice = &prevPrice
				record.PriceChange = &change
				break
			}
		}
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling price record: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.priceTable),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("putting price record in DynamoDB: %w", err)
	}
	return nil
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	return fmt.Sprintf("%f", f)
}
