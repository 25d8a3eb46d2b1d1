package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/perivale/classify-api/internal/artifacts"
	"github.com/perivale/classify-api/internal/config"
	"github.com/perivale/classify-api/internal/handlers"
	"github.com/perivale/classify-api/internal/imaging"
	"github.com/perivale/classify-api/internal/model"
)

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func main() {
	addr := pflag.String("addr", "", "listen address (overrides config file)")
	configPath := pflag.String("config", "", "path to optional YAML settings file")
	envFile := pflag.String("env-file", ".env", "path to optional .env file")
	pflag.Parse()

	// Local convenience only; in a real deployment the environment is set
	// by the platform.
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Skipping env file %s: %v", *envFile, err)
	}

	art, err := config.ArtifactsFromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	settings := config.Defaults()
	if *configPath != "" {
		settings, err = config.LoadSettings(*configPath)
		if err != nil {
			log.Fatalf("Configuration error: %v", err)
		}
	}
	if *addr != "" {
		settings.Addr = *addr
	}

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
	defer modelServer.Close()

	fetcher := imaging.NewFetcher(settings.FetchTimeout, settings.MaxImageBytes)
	handler := handlers.NewHandler(modelServer, fetcher, modelServer.InputSize())

	http.HandleFunc("/health", enableCORS(handler.Health))
	http.HandleFunc("/predict", enableCORS(handler.Predict))

	log.Printf("Server starting on %s", settings.Addr)
	log.Printf("Model: s3://%s/%s (%d classes)", art.Bucket, art.Prefix, len(modelServer.Labels))
	log.Println("Endpoints:")
	log.Println("  GET /health  - Health check")
	log.Println("  GET /predict - Predict from image URL (?url=...)")

	if err := http.ListenAndServe(settings.Addr, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
