package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/dvloznov/expense-insights/internal/config"
	"github.com/dvloznov/expense-insights/internal/export"
	"github.com/dvloznov/expense-insights/internal/logger"
	"github.com/dvloznov/expense-insights/internal/store/factory"
)

func main() {
	log := logger.New("export")

	var (
		userID string
		bucket string
	)

	flag.StringVar(&userID, "user", "", "user ID to export (required)")
	flag.StringVar(&bucket, "bucket", "", "GCS bucket name (optional; defaults to EXPORT_BUCKET)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment")
	}

	cfg := config.Load()
	if bucket == "" {
		bucket = cfg.ExportBucket
	}

	if userID == "" || bucket == "" {
		log.Fatal().Msg("Usage: export -user USER_ID [-bucket BUCKET_NAME]")
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	recordStore, err := factory.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer recordStore.Close()

	log.Info().
		Str("user_id", userID).
		Str("bucket", bucket).
		Msg("Exporting records snapshot")

	exporter := export.NewExporter(recordStore, bucket, log)
	object, err := exporter.Export(ctx, userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	fmt.Printf("Exported records for %s to gs://%s/%s\n", userID, bucket, object)
}
