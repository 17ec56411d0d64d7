package insight

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/expense-insights/internal/auth"
	"github.com/dvloznov/expense-insights/internal/domain"
)

// DefaultBackendTimeout bounds one generative-backend call when no timeout
// is configured. A timed-out call is treated like any other backend failure.
const DefaultBackendTimeout = 30 * time.Second

// Orchestrator drives the two analytic flows over the expense window:
// structured insight generation and free-text question answering. Neither
// operation ever surfaces an error past its boundary; every failure cause
// collapses to a fixed, user-presentable fallback and is logged where it
// occurred. There are no retries anywhere in this path.
type Orchestrator struct {
	identity auth.Resolver
	window   *WindowSelector
	backend  Generator
	timeout  time.Duration
	log      zerolog.Logger
}

// NewOrchestrator creates an insight orchestrator.
func NewOrchestrator(identity auth.Resolver, window *WindowSelector, backend Generator, timeout time.Duration, log zerolog.Logger) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultBackendTimeout
	}
	return &Orchestrator{
		identity: identity,
		window:   window,
		backend:  backend,
		timeout:  timeout,
		log:      log,
	}
}

// GenerateInsights returns structured insights for the caller's recent
// spending. The result is always a well-formed, non-empty insight list:
// an empty window yields the fixed welcome set without touching the
// backend, and any failure yields the fixed unavailable warning.
func (o *Orchestrator) GenerateInsights(ctx context.Context) []domain.Insight {
	userID, err := o.identity.Resolve(ctx)
	if err != nil {
		o.log.Error().Err(err).Msg("Insight generation: identity resolution failed")
		return unavailableInsights()
	}

	window, err := o.window.Select(ctx, userID)
	if err != nil {
		o.log.Error().Err(err).Str("user_id", userID).Msg("Insight generation: window selection failed")
		return unavailableInsights()
	}

	if len(window) == 0 {
		return welcomeInsights()
	}

	backendCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	insights, err := o.backend.Insights(backendCtx, window)
	if err != nil {
		o.log.Error().Err(err).Str("user_id", userID).Msg("Insight generation: backend call failed")
		return unavailableInsights()
	}
	if len(insights) == 0 {
		o.log.Warn().Str("user_id", userID).Msg("Insight generation: backend returned no insights")
		return unavailableInsights()
	}

	return insights
}

// AnswerQuestion answers a free-text question grounded in the caller's
// expense window. It always returns a string: any failure in the chain
// yields the fixed apology answer.
func (o *Orchestrator) AnswerQuestion(ctx context.Context, question string) string {
	userID, err := o.identity.Resolve(ctx)
	if err != nil {
		o.log.Error().Err(err).Msg("Insight answer: identity resolution failed")
		return FallbackAnswer
	}

	window, err := o.window.Select(ctx, userID)
	if err != nil {
		o.log.Error().Err(err).Str("user_id", userID).Msg("Insight answer: window selection failed")
		return FallbackAnswer
	}

	backendCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	answer, err := o.backend.Answer(backendCtx, question, window)
	if err != nil {
		o.log.Error().Err(err).Str("user_id", userID).Msg("Insight answer: backend call failed")
		return FallbackAnswer
	}
	if answer == "" {
		o.log.Warn().Str("user_id", userID).Msg("Insight answer: backend returned empty answer")
		return FallbackAnswer
	}

	return answer
}
