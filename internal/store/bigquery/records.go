// Package bigquery implements store.RecordStore on top of a BigQuery
// dataset. Suitable for deployments that already keep their financial data
// in BigQuery; local setups use the sqlite backend instead.
package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/expense-insights/internal/domain"
	"github.com/dvloznov/expense-insights/internal/store"
)

const recordsTable = "expense_records"

// RecordRow is the BigQuery row shape for one expense record. Date is the
// midday-UTC instant; ExpenseDay is the same calendar day as a DATE column
// so the table can be partitioned and queried by day directly.
type RecordRow struct {
	RecordID   string              `bigquery:"record_id"`
	UserID     string              `bigquery:"user_id"`
	Text       string              `bigquery:"text"`
	Amount     float64             `bigquery:"amount"`
	Category   bigquery.NullString `bigquery:"category"`
	Date       time.Time           `bigquery:"date"`
	ExpenseDay civil.Date          `bigquery:"expense_day"`
	CreatedTS  time.Time           `bigquery:"created_ts"`
}

// RecordRepository is the BigQuery-backed record store. It holds a shared
// client to avoid creating a new connection for each operation.
type RecordRepository struct {
	client  *bigquery.Client
	dataset string
	now     func() time.Time
}

// NewRecordRepository creates a record repository with a shared BigQuery client.
func NewRecordRepository(ctx context.Context, projectID, dataset string) (*RecordRepository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRecordRepository: creating client: %w", err)
	}
	return &RecordRepository{
		client:  client,
		dataset: dataset,
		now:     time.Now,
	}, nil
}

// Close closes the BigQuery client connection.
func (r *RecordRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// CreateRecord inserts one record via the streaming inserter.
func (r *RecordRepository) CreateRecord(ctx context.Context, record *domain.ExpenseRecord) (*domain.ExpenseRecord, error) {
	stored := *record
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now().UTC()
	}

	row := &RecordRow{
		RecordID:   stored.ID,
		UserID:     stored.UserID,
		Text:       stored.Text,
		Amount:     stored.Amount,
		Date:       stored.Date,
		ExpenseDay: civil.DateOf(stored.Date.UTC()),
		CreatedTS:  stored.CreatedAt,
	}
	if stored.Category != "" {
		row.Category = bigquery.NullString{StringVal: stored.Category, Valid: true}
	}

	inserter := r.client.Dataset(r.dataset).Table(recordsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return nil, fmt.Errorf("CreateRecord: inserting row: %w", err)
	}

	return &stored, nil
}

// ListRecords queries records matching the filter, newest first.
func (r *RecordRepository) ListRecords(ctx context.Context, filter store.RecordFilter) ([]*domain.ExpenseRecord, error) {
	if filter.UserID == "" {
		return nil, fmt.Errorf("ListRecords: user ID is required")
	}

	orderBy := "created_ts"
	if filter.OrderBy == store.OrderByDateDesc {
		orderBy = "date"
	}

	sql := fmt.Sprintf(`
		SELECT record_id, user_id, text, amount, category, date, created_ts
		FROM %s.%s
		WHERE user_id = @user_id
	`, r.dataset, recordsTable)

	params := []bigquery.QueryParameter{
		{Name: "user_id", Value: filter.UserID},
	}

	if !filter.MinCreatedAt.IsZero() {
		sql += " AND created_ts >= @min_created_ts"
		params = append(params, bigquery.QueryParameter{Name: "min_created_ts", Value: filter.MinCreatedAt})
	}

	// Record ID is the deterministic tie-break for equal timestamps.
	sql += fmt.Sprintf(" ORDER BY %s DESC, record_id", orderBy)

	if filter.Limit > 0 {
		sql += " LIMIT @row_limit"
		params = append(params, bigquery.QueryParameter{Name: "row_limit", Value: int64(filter.Limit)})
	}

	q := r.client.Query(sql)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRecords: running query: %w", err)
	}

	var records []*domain.ExpenseRecord
	for {
		var row RecordRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListRecords: reading row: %w", err)
		}
		records = append(records, rowToRecord(&row))
	}

	return records, nil
}

func rowToRecord(row *RecordRow) *domain.ExpenseRecord {
	record := &domain.ExpenseRecord{
		ID:        row.RecordID,
		UserID:    row.UserID,
		Text:      row.Text,
		Amount:    row.Amount,
		Date:      row.Date,
		CreatedAt: row.CreatedTS,
	}
	if row.Category.Valid {
		record.Category = row.Category.StringVal
	}
	return record
}

var _ store.RecordStore = (*RecordRepository)(nil)
