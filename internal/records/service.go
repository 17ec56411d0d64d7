// Package records implements the record-facing operations: normalize and
// create, list the latest records, and aggregate the full record set.
package records

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/expense-insights/internal/auth"
	"github.com/dvloznov/expense-insights/internal/domain"
	"github.com/dvloznov/expense-insights/internal/events"
	"github.com/dvloznov/expense-insights/internal/store"
)

// listLimit caps GetRecords; the record list view shows the latest entries only.
const listLimit = 10

// Created is the shape returned to the caller after a successful create:
// the stored record with the date rendered back as an ISO-8601 string.
type Created struct {
	Text     string  `json:"text"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

// Service exposes the record CRUD operations. Every failure is surfaced as
// a tagged error (ValidationError, ErrUnauthenticated, PersistenceError);
// no partial writes happen on any failure path.
type Service struct {
	store    store.RecordStore
	identity auth.Resolver
	events   events.Publisher
	now      func() time.Time
	log      zerolog.Logger
}

// NewService creates a record service. The clock is injected so tests can
// fix "now"; a nil publisher disables change notifications.
func NewService(recordStore store.RecordStore, identity auth.Resolver, publisher events.Publisher, now func() time.Time, log zerolog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:    recordStore,
		identity: identity,
		events:   publisher,
		now:      now,
		log:      log,
	}
}

// AddRecord validates the raw field map, persists the record for the
// caller, and signals the view cache that the record list changed. The
// notification fires exactly once per successful create and never on a
// failed one.
func (s *Service) AddRecord(ctx context.Context, fields Fields) (*Created, error) {
	parsed, err := parseFields(fields)
	if err != nil {
		s.log.Warn().Err(err).Msg("Record create rejected")
		return nil, err
	}

	userID, err := s.identity.Resolve(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Record create: identity resolution failed")
		return nil, err
	}

	stored, err := s.store.CreateRecord(ctx, &domain.ExpenseRecord{
		UserID:   userID,
		Text:     parsed.text,
		Amount:   parsed.amount,
		Category: parsed.category,
		Date:     parsed.date,
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("Record create: store failed")
		return nil, &domain.PersistenceError{Op: "create record", Err: err}
	}

	// Fall back to the just-computed date if the store omitted it.
	dateStr := parsed.date.Format(time.RFC3339)
	if !stored.Date.IsZero() {
		dateStr = stored.Date.UTC().Format(time.RFC3339)
	}

	if s.events != nil {
		if err := s.events.PublishRecordsChanged(ctx, userID); err != nil {
			// Fire-and-forget: a lost notification only delays the view refresh.
			s.log.Warn().Err(err).Str("user_id", userID).Msg("Record create: change notification failed")
		}
	}

	return &Created{
		Text:     stored.Text,
		Amount:   stored.Amount,
		Category: stored.Category,
		Date:     dateStr,
	}, nil
}

// GetRecords returns the caller's latest records, newest first by expense
// date, capped at 10.
func (s *Service) GetRecords(ctx context.Context) ([]*domain.ExpenseRecord, error) {
	userID, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.store.ListRecords(ctx, store.RecordFilter{
		UserID:  userID,
		OrderBy: store.OrderByDateDesc,
		Limit:   listLimit,
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("Record list: store failed")
		return nil, &domain.PersistenceError{Op: "list records", Err: err}
	}

	return records, nil
}

// GetAggregate reduces the caller's full record set into a total and a
// count of entries with a positive amount.
func (s *Service) GetAggregate(ctx context.Context) (*domain.Aggregate, error) {
	userID, err := s.identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.store.ListRecords(ctx, store.RecordFilter{UserID: userID})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("Record aggregate: store failed")
		return nil, &domain.PersistenceError{Op: "aggregate records", Err: err}
	}

	agg := &domain.Aggregate{}
	for _, record := range records {
		agg.Total += record.Amount
		if record.Amount > 0 {
			agg.ActiveDayCount++
		}
	}

	return agg, nil
}
