package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/petrolfinder/backend-go/internal/cache"
	"github.com/petrolfinder/backend-go/internal/config"
	"github.com/petrolfinder/backend-go/internal/fusion"
	"github.com/petrolfinder/backend-go/internal/handler"
	"github.com/petrolfinder/backend-go/internal/price"
	"github.com/petrolfinder/backend-go/internal/station"
	"github.com/petrolfinder/backend-go/internal/storage"
	"github.com/petrolfinder/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

var (
	stationsHandler *handler.StationsHandler
	setupOnce       sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()
		cacheConfig := config.GetCacheConfig()
		pricing := config.DefaultPricingConfig()

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
		scrapeClient := client.New(client.Options{
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
			UserAgent:  "petrolfinder/1.0",
		})

		baselines := price.NewBaselineService(scrapeClient, pricing, cacheConfig)
		estimator := price.NewEstimator(store, baselines, pricing)
		engine := fusion.NewEngine(fusion.NewDefaultMatcher(), estimator, pricing)

		results, err := cache.NewResultCache(cacheConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating result cache")
		}

		stationsHandler = handler.NewStationsHandler(
			station.NewLocalSource(store),
			station.NewPlacesSource(placesClient, cfg.PlacesAPIKey),
			engine,
			results,
		)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return stationsHandler.HandleRequest(ctx, request)
}

func main() {
	lambda.Start(handleRequest)
}
