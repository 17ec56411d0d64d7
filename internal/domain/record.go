package domain

import (
	"time"
)

// ExpenseRecord is the canonical persisted expense entry. Date carries the
// calendar day of the expense pinned at 12:00 UTC so the day never shifts
// when rendered in a local timezone; CreatedAt is the persistence timestamp
// and drives the analysis window.
type ExpenseRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// NormalizedExpense is the analytic projection of an ExpenseRecord handed to
// the generative backend. It never outlives the request that built it.
// Category is always non-empty here; records without one get "Other".
type NormalizedExpense struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// DefaultCategory is substituted for an empty category in the analytic
// projection only; the persisted record keeps whatever the user entered.
const DefaultCategory = "Other"

// Normalize projects the record into its analytic shape.
func (r *ExpenseRecord) Normalize() NormalizedExpense {
	category := r.Category
	if category == "" {
		category = DefaultCategory
	}
	return NormalizedExpense{
		ID:          r.ID,
		Amount:      r.Amount,
		Category:    category,
		Description: r.Text,
		Date:        r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Insight type markers. The set is open; the generative backend may emit
// other values and they are passed through verbatim.
const (
	InsightTypeInfo    = "info"
	InsightTypeTip     = "tip"
	InsightTypeWarning = "warning"
)

// Insight is one machine-generated (or canned fallback) observation about
// recent spending. Insights are recomputed per request and never persisted.
type Insight struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Title      string  `json:"title"`
	Message    string  `json:"message"`
	Action     string  `json:"action"`
	Confidence float64 `json:"confidence"`
}

// Aggregate is the running-total view over a user's full record set.
// ActiveDayCount counts records with a positive amount, not distinct
// calendar days; the name is kept for compatibility with existing clients.
type Aggregate struct {
	Total          float64 `json:"total"`
	ActiveDayCount int     `json:"activeDayCount"`
}
