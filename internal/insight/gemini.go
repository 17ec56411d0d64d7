package insight

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dvloznov/expense-insights/internal/domain"
)

// DefaultModelName is the default Gemini model used for insight generation.
const DefaultModelName = "gemini-2.5-flash"

// GeminiGenerator is the concrete Generator backed by the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator. Credentials come
// from the environment (GEMINI_API_KEY or Application Default Credentials).
func NewGeminiGenerator(ctx context.Context, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiGenerator: create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Insights sends the expense window to Gemini and parses the structured
// insight list from its response.
func (g *GeminiGenerator) Insights(ctx context.Context, window []domain.NormalizedExpense) ([]domain.Insight, error) {
	prompt, err := buildInsightsPrompt(window)
	if err != nil {
		return nil, err
	}

	rawText, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("Insights: %w", err)
	}

	insights, err := parseInsights(rawText)
	if err != nil {
		return nil, fmt.Errorf("Insights: %w", err)
	}
	return insights, nil
}

// Answer sends the question and expense window to Gemini and returns the
// plain-text answer.
func (g *GeminiGenerator) Answer(ctx context.Context, question string, window []domain.NormalizedExpense) (string, error) {
	prompt, err := buildAnswerPrompt(question, window)
	if err != nil {
		return "", err
	}

	rawText, err := g.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("Answer: %w", err)
	}

	return strings.TrimSpace(rawText), nil
}

func (g *GeminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return rawText, nil
}

var _ Generator = (*GeminiGenerator)(nil)
