package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dvloznov/expense-insights/internal/domain"
)

// parseInsights parses the model's raw text into insights. It expects a
// STRICT JSON array of insight objects but tolerates Markdown fences and
// surrounding junk if the model ignored instructions.
func parseInsights(rawText string) ([]domain.Insight, error) {
	clean := cleanModelJSON(rawText)

	var parsed []interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("parseInsights: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}

	insights := make([]domain.Insight, 0, len(parsed))
	for i, item := range parsed {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("parseInsights: element %d is %T, want map[string]interface{}", i, item)
		}

		insightType, err := getStringField(obj, "type", true)
		if err != nil {
			return nil, fmt.Errorf("insight %d: %w", i, err)
		}
		title, err := getStringField(obj, "title", true)
		if err != nil {
			return nil, fmt.Errorf("insight %d: %w", i, err)
		}
		message, err := getStringField(obj, "message", true)
		if err != nil {
			return nil, fmt.Errorf("insight %d: %w", i, err)
		}
		action, err := getStringField(obj, "action", false)
		if err != nil {
			return nil, fmt.Errorf("insight %d: %w", i, err)
		}
		confidence, err := getFloat64Field(obj, "confidence", true)
		if err != nil {
			return nil, fmt.Errorf("insight %d: %w", i, err)
		}
		if confidence < 0 || confidence > 1 {
			return nil, fmt.Errorf("insight %d: confidence %v out of range [0,1]", i, confidence)
		}

		// The model is not asked for IDs; assign one unless it sent one anyway.
		id, err := getStringField(obj, "id", false)
		if err != nil {
			return nil, fmt.Errorf("insight %d: %w", i, err)
		}
		if id == "" {
			id = uuid.NewString()
		}

		insights = append(insights, domain.Insight{
			ID:         id,
			Type:       insightType,
			Title:      title,
			Message:    message,
			Action:     action,
			Confidence: confidence,
		})
	}

	return insights, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			// Single-line weirdness; just return as-is.
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Extra safety: if there's still junk around the JSON array,
	// try to keep only from the first '[' to the last ']'.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = s[start : end+1]
			s = strings.TrimSpace(s)
		}
	}

	return s
}

func getStringField(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return "", nil
	}
	switch val := v.(type) {
	case string:
		if required && strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("required field %q is empty", key)
		}
		return val, nil
	default:
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
}

func getFloat64Field(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int: // unlikely from encoding/json, but harmless to support
		return float64(val), nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}
