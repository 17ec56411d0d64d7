package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dvloznov/expense-insights/internal/domain"
	"github.com/dvloznov/expense-insights/internal/store"
)

func newTestStore(t *testing.T) *RecordStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func midday(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestCreateRecord_FillsIDAndCreatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stored, err := s.CreateRecord(ctx, &domain.ExpenseRecord{
		UserID:   "user-1",
		Text:     "coffee",
		Amount:   3.5,
		Category: "Food",
		Date:     midday(2026, time.August, 10),
	})
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}
	if stored.ID == "" {
		t.Error("expected generated record ID")
	}
	if stored.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestCreateRecord_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	date := midday(2026, time.August, 10)
	created, err := s.CreateRecord(ctx, &domain.ExpenseRecord{
		UserID:   "user-1",
		Text:     "groceries",
		Amount:   42.17,
		Category: "Food",
		Date:     date,
	})
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	records, err := s.ListRecords(ctx, store.RecordFilter{UserID: "user-1"})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	got := records[0]
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}
	if got.Amount != 42.17 {
		t.Errorf("Amount = %v, want 42.17", got.Amount)
	}
	if got.Category != "Food" {
		t.Errorf("Category = %q, want Food", got.Category)
	}
	if !got.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", got.Date, date)
	}
	// Calendar day must survive the round trip.
	if got.Date.UTC().Format("2006-01-02") != "2026-08-10" {
		t.Errorf("calendar day = %q, want 2026-08-10", got.Date.UTC().Format("2006-01-02"))
	}
}

func TestListRecords_OrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.CreateRecord(ctx, &domain.ExpenseRecord{
			UserID:    "user-1",
			Text:      "expense",
			Amount:    float64(i + 1),
			Date:      midday(2026, time.August, i+1),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}
	}

	records, err := s.ListRecords(ctx, store.RecordFilter{
		UserID:  "user-1",
		OrderBy: store.OrderByCreatedAtDesc,
		Limit:   3,
	})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			t.Errorf("records not newest-first at index %d", i)
		}
	}
	if records[0].Amount != 5 {
		t.Errorf("newest record amount = %v, want 5", records[0].Amount)
	}
}

func TestListRecords_MinCreatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	recent := time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC)

	for _, createdAt := range []time.Time{old, recent} {
		_, err := s.CreateRecord(ctx, &domain.ExpenseRecord{
			UserID:    "user-1",
			Text:      "expense",
			Amount:    1,
			Date:      midday(2026, time.June, 1),
			CreatedAt: createdAt,
		})
		if err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}
	}

	cutoff := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	records, err := s.ListRecords(ctx, store.RecordFilter{
		UserID:       "user-1",
		MinCreatedAt: cutoff,
	})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if !records[0].CreatedAt.Equal(recent) {
		t.Errorf("CreatedAt = %v, want %v", records[0].CreatedAt, recent)
	}
}

func TestListRecords_ScopedToUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, userID := range []string{"user-a", "user-b"} {
		_, err := s.CreateRecord(ctx, &domain.ExpenseRecord{
			UserID: userID,
			Text:   "expense",
			Amount: 1,
			Date:   midday(2026, time.August, 1),
		})
		if err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}
	}

	records, err := s.ListRecords(ctx, store.RecordFilter{UserID: "user-a"})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].UserID != "user-a" {
		t.Errorf("UserID = %q, want user-a", records[0].UserID)
	}
}

func TestListRecords_RequiresUserID(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.ListRecords(context.Background(), store.RecordFilter{}); err == nil {
		t.Error("expected error for missing user ID")
	}
}

func TestCreateRecord_NonUTCCreatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// The created_at column must stay lexically ordered by instant even
	// when the caller supplies CreatedAt in an offset zone.
	utc := time.Date(2026, time.August, 10, 20, 0, 0, 0, time.UTC)
	offset := time.Date(2026, time.August, 11, 2, 0, 0, 0, time.FixedZone("", 14*3600)) // 2026-08-10T12:00Z

	for i, createdAt := range []time.Time{utc, offset} {
		_, err := s.CreateRecord(ctx, &domain.ExpenseRecord{
			UserID:    "user-1",
			Text:      "expense",
			Amount:    float64(i + 1),
			Date:      midday(2026, time.August, 10),
			CreatedAt: createdAt,
		})
		if err != nil {
			t.Fatalf("CreateRecord failed: %v", err)
		}
	}

	records, err := s.ListRecords(ctx, store.RecordFilter{
		UserID:  "user-1",
		OrderBy: store.OrderByCreatedAtDesc,
	})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if !records[0].CreatedAt.Equal(utc) {
		t.Errorf("newest CreatedAt = %v, want %v", records[0].CreatedAt, utc)
	}
	if !records[1].CreatedAt.Equal(offset) {
		t.Errorf("oldest CreatedAt = %v, want the offset-zone instant %v", records[1].CreatedAt, offset)
	}

	// The cutoff compares instants, not serialized strings.
	cutoff := time.Date(2026, time.August, 10, 14, 0, 0, 0, time.UTC)
	records, err = s.ListRecords(ctx, store.RecordFilter{
		UserID:       "user-1",
		MinCreatedAt: cutoff,
	})
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 1 || !records[0].CreatedAt.Equal(utc) {
		t.Errorf("cutoff kept %d records, want only the 20:00Z one", len(records))
	}
}
