package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"

	"github.com/dvloznov/expense-insights/internal/domain"
	"github.com/dvloznov/expense-insights/internal/store"
)

// Snapshot is the JSON document written to the bucket: every record a
// user has, plus enough metadata to tell snapshots apart.
type Snapshot struct {
	UserID      string                  `json:"user_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	RecordCount int                     `json:"record_count"`
	Records     []*domain.ExpenseRecord `json:"records"`
}

type uploadFunc func(ctx context.Context, objectName string, data []byte) error

// Exporter dumps a user's full record set to a GCS bucket as JSON.
type Exporter struct {
	records store.RecordStore
	bucket  string
	now     func() time.Time
	upload  uploadFunc
	log     zerolog.Logger
}

func NewExporter(records store.RecordStore, bucket string, log zerolog.Logger) *Exporter {
	e := &Exporter{
		records: records,
		bucket:  bucket,
		now:     time.Now,
		log:     log,
	}
	e.upload = e.uploadToGCS
	return e
}

// Export writes a snapshot of all of the user's records to the bucket
// and returns the object name it wrote.
func (e *Exporter) Export(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("export: user ID is required")
	}

	records, err := e.records.ListRecords(ctx, store.RecordFilter{
		UserID:  userID,
		OrderBy: store.OrderByDateDesc,
	})
	if err != nil {
		return "", fmt.Errorf("export: listing records: %w", err)
	}

	generatedAt := e.now().UTC()
	snap := Snapshot{
		UserID:      userID,
		GeneratedAt: generatedAt,
		RecordCount: len(records),
		Records:     records,
	}

	data, err := encodeSnapshot(snap)
	if err != nil {
		return "", fmt.Errorf("export: encoding snapshot: %w", err)
	}

	object := objectName(userID, generatedAt)
	if err := e.upload(ctx, object, data); err != nil {
		return "", fmt.Errorf("export: uploading %q: %w", object, err)
	}

	e.log.Info().
		Str("user_id", userID).
		Str("object", object).
		Int("records", len(records)).
		Msg("snapshot exported")

	return object, nil
}

func (e *Exporter) uploadToGCS(ctx context.Context, objectName string, data []byte) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(e.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := bytes.NewReader(data).WriteTo(w); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy snapshot to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload: %w", err)
	}
	return nil
}

func encodeSnapshot(snap Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// objectName keys snapshots by user and generation time so repeated
// exports never overwrite each other.
func objectName(userID string, generatedAt time.Time) string {
	return fmt.Sprintf("snapshots/%s/%s.json", userID, generatedAt.Format("20060102T150405Z"))
}
