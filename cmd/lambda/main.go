package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/perivale/classify-api/internal/artifacts"
	"github.com/perivale/classify-api/internal/config"
	"github.com/perivale/classify-api/internal/handlers"
	"github.com/perivale/classify-api/internal/imaging"
	"github.com/perivale/classify-api/internal/model"
)

// Everything here runs during cold start; a failure takes the execution
// environment down, and the platform retries with a fresh one.
func main() {
	art, err := config.ArtifactsFromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	settings := config.Defaults()

	ctx := context.Background()

	store, err := artifacts.NewS3Store(ctx, art, settings.CacheDir)
	if err != nil {
		log.Fatalf("Failed to initialize artifact store: %v", err)
	}

	paths, err := store.Fetch(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch model artifacts: %v", err)
	}

	modelServer, err := model.NewServer(paths.Weights, paths.Metadata, paths.Labels)
	if err != nil {
		log.Fatalf("Failed to initialize model server: %v", err)
	}

	fetcher := imaging.NewFetcher(settings.FetchTimeout, settings.MaxImageBytes)
	handler := handlers.NewHandler(modelServer, fetcher, modelServer.InputSize())

	log.Printf("Model ready: s3://%s/%s (%d classes)", art.Bucket, art.Prefix, len(modelServer.Labels))

	lambda.Start(handler.APIGateway)
}
