package insight

import (
	"github.com/dvloznov/expense-insights/internal/domain"
)

// FallbackAnswer is returned by AnswerQuestion whenever any step of the
// chain fails. One string covers every failure cause: question answering
// degrades to "try again" rather than cause-specific guidance.
const FallbackAnswer = "I'm unable to provide a detailed answer at the moment. " +
	"Please try refreshing the insights or check your connection."

// welcomeInsights is the fixed set returned for an empty window. An empty
// window carries no signal, so a generated insight would be fabricated.
func welcomeInsights() []domain.Insight {
	return []domain.Insight{
		{
			ID:    "welcome-1",
			Type:  domain.InsightTypeInfo,
			Title: "Welcome to ExpenseTracker AI!",
			Message: "Start adding your expenses to get personalized AI insights " +
				"about your spending patterns.",
			Action:     "Add your first expense",
			Confidence: 1.0,
		},
		{
			ID:    "welcome-2",
			Type:  domain.InsightTypeTip,
			Title: "Track Regularly",
			Message: "For best results, try to log expenses daily. This helps our AI " +
				"provide more accurate insights.",
			Action:     "Set daily reminders",
			Confidence: 1.0,
		},
	}
}

// unavailableInsights is the single fixed insight returned when any part of
// the insight chain fails.
func unavailableInsights() []domain.Insight {
	return []domain.Insight{
		{
			ID:    "error-1",
			Type:  domain.InsightTypeWarning,
			Title: "Insights Temporarily Unavailable",
			Message: "We're having trouble analyzing your expenses right now. " +
				"Please try again in a few minutes.",
			Action:     "Retry analysis",
			Confidence: 0.5,
		},
	}
}
