package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/expense-insights/internal/domain"
)

// buildInsightsPrompt constructs the prompt asking the model for a strict
// JSON array of insights over the expense window.
func buildInsightsPrompt(window []domain.NormalizedExpense) (string, error) {
	windowJSON, err := json.Marshal(window)
	if err != nil {
		return "", fmt.Errorf("buildInsightsPrompt: marshal window: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a personal finance analyst.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Analyze the expense records below and produce 3-4 concise insights about the user's spending.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n")
	b.WriteString("- Output a JSON array of objects.\n\n")
	b.WriteString("Each object must have these fields:\n")
	b.WriteString("- \"type\": string, one of \"info\", \"tip\" or \"warning\"\n")
	b.WriteString("- \"title\": string, at most 8 words\n")
	b.WriteString("- \"message\": string, 1-2 sentences\n")
	b.WriteString("- \"action\": string, a short suggested next step\n")
	b.WriteString("- \"confidence\": number between 0 and 1\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Ground every insight in the data; never invent amounts or categories.\n")
	b.WriteString("- Positive amounts are money spent.\n")
	b.WriteString("- Return ONLY valid raw JSON.\n")
	b.WriteString("- Do NOT wrap the response in code fences.\n")
	b.WriteString("- Do NOT use ```json or any Markdown.\n")
	b.WriteString("- Output must begin with \"[\" and end with \"]\".\n\n")
	b.WriteString("Expense records (JSON):\n")
	b.Write(windowJSON)
	b.WriteString("\n")

	return b.String(), nil
}

// buildAnswerPrompt constructs the prompt asking the model to answer a
// free-text question grounded in the expense window.
func buildAnswerPrompt(question string, window []domain.NormalizedExpense) (string, error) {
	windowJSON, err := json.Marshal(window)
	if err != nil {
		return "", fmt.Errorf("buildAnswerPrompt: marshal window: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a personal finance analyst.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Answer the user's question using ONLY the expense records below.\n")
	b.WriteString("- Answer in 2-3 sentences of plain text, no Markdown.\n")
	b.WriteString("- Mention concrete amounts and categories from the data where relevant.\n")
	b.WriteString("- If the records cannot answer the question, say so briefly.\n\n")
	b.WriteString("Question:\n")
	b.WriteString(question)
	b.WriteString("\n\nExpense records (JSON):\n")
	b.Write(windowJSON)
	b.WriteString("\n")

	return b.String(), nil
}
