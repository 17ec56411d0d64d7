// Package store defines the persistence boundary for expense records and
// the concrete backends that implement it.
package store

import (
	"context"
	"time"

	"github.com/dvloznov/expense-insights/internal/domain"
)

// Order selects the sort column for ListRecords. Both orders are descending
// with record ID as the deterministic tie-break.
type Order string

const (
	// OrderByCreatedAtDesc orders by persistence timestamp, newest first.
	// The insight window uses this ordering.
	OrderByCreatedAtDesc Order = "created_at"

	// OrderByDateDesc orders by the expense calendar date, newest first.
	OrderByDateDesc Order = "date"
)

// RecordFilter narrows a ListRecords call. UserID is required; a zero
// MinCreatedAt means no lower bound and a zero Limit means no cap.
type RecordFilter struct {
	UserID       string
	MinCreatedAt time.Time
	OrderBy      Order
	Limit        int
}

// RecordStore is the persistence collaborator for expense records.
type RecordStore interface {
	// CreateRecord persists a new record and returns the stored shape.
	// Missing ID and CreatedAt are filled in by the store.
	CreateRecord(ctx context.Context, record *domain.ExpenseRecord) (*domain.ExpenseRecord, error)

	// ListRecords returns records matching the filter. It never mutates
	// persisted state.
	ListRecords(ctx context.Context, filter RecordFilter) ([]*domain.ExpenseRecord, error)

	// Close releases backend resources.
	Close() error
}
