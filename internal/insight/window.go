package insight

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/expense-insights/internal/domain"
	"github.com/dvloznov/expense-insights/internal/store"
)

const (
	// windowDays is how far back the analysis window reaches.
	windowDays = 30

	// windowLimit caps how many records feed the generative backend.
	windowLimit = 50
)

// WindowSelector builds the bounded analysis window for one user: the most
// recent 30 days of records by persistence timestamp, newest first, capped
// at 50 entries and projected into the analytic shape. It is a pure read.
type WindowSelector struct {
	store store.RecordStore
	now   func() time.Time
}

// NewWindowSelector creates a window selector. The clock is injected so
// tests can fix "now".
func NewWindowSelector(recordStore store.RecordStore, now func() time.Time) *WindowSelector {
	if now == nil {
		now = time.Now
	}
	return &WindowSelector{store: recordStore, now: now}
}

// Select returns the normalized expense window for the user.
func (s *WindowSelector) Select(ctx context.Context, userID string) ([]domain.NormalizedExpense, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -windowDays)

	records, err := s.store.ListRecords(ctx, store.RecordFilter{
		UserID:       userID,
		MinCreatedAt: cutoff,
		OrderBy:      store.OrderByCreatedAtDesc,
		Limit:        windowLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("selecting expense window: %w", err)
	}

	window := make([]domain.NormalizedExpense, 0, len(records))
	for _, record := range records {
		window = append(window, record.Normalize())
	}
	return window, nil
}
