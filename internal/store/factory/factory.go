// Package factory selects and constructs the configured record store backend.
package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dvloznov/expense-insights/internal/config"
	"github.com/dvloznov/expense-insights/internal/store"
	"github.com/dvloznov/expense-insights/internal/store/bigquery"
	"github.com/dvloznov/expense-insights/internal/store/sqlite"
)

// New creates the record store selected by cfg.StoreBackend.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.RecordStore, error) {
	switch cfg.StoreBackend {
	case config.BackendBigQuery:
		repo, err := bigquery.NewRecordRepository(ctx, cfg.BigQueryProjectID, cfg.BigQueryDataset)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize BigQuery store: %w", err)
		}
		log.Info().
			Str("project", cfg.BigQueryProjectID).
			Str("dataset", cfg.BigQueryDataset).
			Msg("Initialized BigQuery record store")
		return repo, nil

	case config.BackendSQLite:
		s, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		log.Info().Str("db_path", cfg.SQLiteDBPath).Msg("Initialized SQLite record store")
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %q", cfg.StoreBackend)
	}
}
