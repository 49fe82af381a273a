package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/petrolfinder/backend-go/internal/cache"
	"github.com/petrolfinder/backend-go/internal/config"
	"github.com/petrolfinder/backend-go/internal/handler"
	"github.com/petrolfinder/backend-go/internal/station"
	"github.com/petrolfinder/backend-go/internal/storage"
	"github.com/petrolfinder/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

var (
	syncHandler *handler.SyncHandler
	setupOnce   sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()
		cacheConfig := config.GetCacheConfig()

		log.Info().Str("env", cfg.Environment).Msg("Environment")

		ctx := context.Background()
		dynamoClient, err := cache.NewDynamoClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating DynamoDB client")
		}
		store := storage.NewStationStore(dynamoClient, cacheConfig)

		placesClient := client.New(client.Options{
			BaseURL:    cfg.PlacesBaseURL,
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
		})
		places := station.NewPlacesSource(placesClient, cfg.PlacesAPIKey)

		var snapshot station.SnapshotSaver
		if cacheConfig.SnapshotBucket != "" {
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("Error loading AWS config")
			}
			snapshot = cache.NewS3SnapshotCache(
				s3.NewFromConfig(awsCfg),
				cacheConfig.SnapshotBucket,
				cacheConfig.GetSnapshotTTL(),
			)
		}

		syncHandler = handler.NewSyncHandler(station.NewSyncService(places, store, snapshot))
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return syncHandler.HandleRequest(ctx, request)
}

func main() {
	lambda.Start(handleRequest)
}
