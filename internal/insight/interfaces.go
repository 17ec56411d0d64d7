package insight

import (
	"context"

	"github.com/dvloznov/expense-insights/internal/domain"
)

// Generator is the generative backend consumed by the orchestrator. Either
// call may fail, time out, or return unusable output; the orchestrator
// treats all such outcomes as failure and falls back to canned payloads.
// This interface enables mocking the backend in tests.
type Generator interface {
	// Insights produces structured insights for the expense window.
	Insights(ctx context.Context, window []domain.NormalizedExpense) ([]domain.Insight, error)

	// Answer answers a free-text question grounded in the expense window.
	Answer(ctx context.Context, question string, window []domain.NormalizedExpense) (string, error)
}
