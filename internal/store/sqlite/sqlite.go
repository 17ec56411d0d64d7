// Package sqlite provides a SQLite-backed implementation of the
// store.RecordStore interface using the pure Go driver (no CGO).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/dvloznov/expense-insights/internal/domain"
	"github.com/dvloznov/expense-insights/internal/store"
)

// Ensure RecordStore implements store.RecordStore
var _ store.RecordStore = (*RecordStore)(nil)

// RecordStore implements store.RecordStore using SQLite.
type RecordStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new RecordStore with the given database path. It creates
// the parent directories and runs migrations automatically.
func New(dbPath string) (*RecordStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &RecordStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *RecordStore) Close() error {
	return s.db.Close()
}

// CreateRecord persists a new expense record.
func (s *RecordStore) CreateRecord(ctx context.Context, record *domain.ExpenseRecord) (*domain.ExpenseRecord, error) {
	stored := *record
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expense_records (id, user_id, text, amount, category, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.UserID, stored.Text, stored.Amount, stored.Category,
		stored.Date.UTC().Format(time.RFC3339), stored.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}

	return &stored, nil
}

// ListRecords returns records matching the filter, newest first.
func (s *RecordStore) ListRecords(ctx context.Context, filter store.RecordFilter) ([]*domain.ExpenseRecord, error) {
	if filter.UserID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	query := `SELECT id, user_id, text, amount, category, date, created_at
		FROM expense_records
		WHERE user_id = ?`
	args := []any{filter.UserID}

	if !filter.MinCreatedAt.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.MinCreatedAt.UTC().Format(time.RFC3339))
	}

	// Record ID is the deterministic tie-break for equal timestamps.
	switch filter.OrderBy {
	case store.OrderByDateDesc:
		query += " ORDER BY date DESC, id"
	default:
		query += " ORDER BY created_at DESC, id"
	}

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []*domain.ExpenseRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

func scanRecord(rows *sql.Rows) (*domain.ExpenseRecord, error) {
	var record domain.ExpenseRecord
	var dateStr, createdStr string

	if err := rows.Scan(&record.ID, &record.UserID, &record.Text, &record.Amount,
		&record.Category, &dateStr, &createdStr); err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	date, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record date %q: %w", dateStr, err)
	}
	created, err := time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record created_at %q: %w", createdStr, err)
	}

	record.Date = date
	record.CreatedAt = created
	return &record, nil
}
