package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/petrolfinder/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

const snapshotKey = "station-directory.json"

type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// S3SnapshotCache stores the most recent station-directory sweep in S3 so
// operators can inspect what a bulk sync produced.
type S3SnapshotCache struct {
	client     S3Client
	bucketName string
	ttl        time.Duration
	clock      clock
}

// SnapshotRecord is the persisted directory snapshot with metadata.
type SnapshotRecord struct {
	Stations    []models.StationCandidate `json:"stations"`
	LastUpdated int64                     `json:"lastUpdated"`
	TTL         int64                     `json:"ttl"`
}

// NewS3SnapshotCache creates a snapshot cache for a bucket.
func NewS3SnapshotCache(client S3Client, bucketName string, ttl time.Duration) *S3SnapshotCache {
	return &S3SnapshotCache{
		client:     client,
		bucketName: bucketName,
		ttl:        ttl,
		clock:      systemClock{},
	}
}

// GetStations retrieves the snapshot from S3 if available and unexpired.
func (c *S3SnapshotCache) GetStations(ctx context.Context) ([]models.StationCandidate, error) {
	if c.bucketName == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(snapshotKey),
	})
	if err != nil {
		// If object doesn't exist, return nil without error
		return nil, nil
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var record SnapshotRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding snapshot record: %w", err)
	}

	if c.clock.Now().Unix() > record.TTL {
		log.Debug().Msg("Station directory snapshot expired")
		return nil, nil
	}

	return record.Stations, nil
}

// SaveStations writes the latest sweep result to S3.
func (c *S3SnapshotCache) SaveStations(ctx context.Context, stations []models.StationCandidate) error {
	if c.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	now := c.clock.Now().Unix()
	record := SnapshotRecord{
		Stations:    stations,
		LastUpdated: now,
		TTL:         now + int64(c.ttl.Seconds()),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding snapshot record: %w", err)
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(snapshotKey),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("saving to S3: %w", err)
	}

	log.Debug().Int("station_count", len(stations)).Msg("Saved station directory snapshot to S3")
	return nil
}
