package records

import (
	"strconv"
	"time"

	"github.com/dvloznov/expense-insights/internal/domain"
)

// Fields is the untyped field-value map coming off a submitted form.
type Fields map[string]string

// Validation messages kept stable for existing clients.
const (
	msgFieldsRequired    = "All fields are required"
	msgInvalidAmount     = "Invalid amount"
	msgInvalidDateFormat = "Invalid date format"
)

// parsedFields is the outcome of one validation pass over the field map.
type parsedFields struct {
	text     string
	amount   float64
	category string
	date     time.Time
}

// parseFields validates and coerces the raw field map in a single pass.
// Every field must be present and non-empty; the date must be a strict
// YYYY-MM-DD calendar date. The resulting instant is pinned at 12:00 UTC
// on that day so the date never shifts under local-timezone rendering.
func parseFields(fields Fields) (*parsedFields, error) {
	text := fields["text"]
	amountStr := fields["amount"]
	category := fields["category"]
	dateStr := fields["date"]

	if text == "" || amountStr == "" || category == "" || dateStr == "" {
		return nil, domain.NewValidationError(msgFieldsRequired)
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return nil, domain.NewValidationError(msgInvalidAmount)
	}

	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, domain.NewValidationError(msgInvalidDateFormat)
	}
	date := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)

	return &parsedFields{
		text:     text,
		amount:   amount,
		category: category,
		date:     date,
	}, nil
}
