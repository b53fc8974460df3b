// Package verdict defines the critic's output schema and validates raw LLM
// responses against it.
package verdict

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aryanagarwal/guide/internal/rubric"
)

// Verdict is the critic's judgement of one activity.
type Verdict struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
	Reason   string `json:"reason"`
}

// Parse strips markdown fences, unmarshals JSON, and validates the structure
// of an LLM response.
func Parse(raw string) (*Verdict, error) {
	cleaned := stripFences(raw)

	var v Verdict
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, fmt.Errorf("JSON parse failed: %w", err)
	}

	if !rubric.IsValidCategory(v.Category) {
		return nil, fmt.Errorf("unknown category %q", v.Category)
	}
	if v.Score < rubric.ScoreMin || v.Score > rubric.ScoreMax {
		return nil, fmt.Errorf("score %d out of range [%d, %d]", v.Score, rubric.ScoreMin, rubric.ScoreMax)
	}
	if v.Reason == "" {
		return nil, fmt.Errorf("reason is required")
	}

	return &v, nil
}

// stripFences removes leading/trailing markdown code fences (```json ... ``` or ``` ... ```).
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		// Remove first line (the fence opener)
		idx := strings.Index(s, "\n")
		if idx >= 0 {
			s = s[idx+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		idx := strings.LastIndex(s, "\n```")
		if idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// SanitizeErrForPrompt classifies a parse error into a fixed category string
// without echoing any LLM-generated content back into a retry prompt.
func SanitizeErrForPrompt(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "JSON parse failed"):
		return "JSON syntax error"
	case strings.Contains(msg, "unknown category"):
		return "invalid enum value (unknown activity category)"
	case strings.Contains(msg, "out of range"):
		return fmt.Sprintf("score out of range (must be %d to %d)", rubric.ScoreMin, rubric.ScoreMax)
	case strings.Contains(msg, "reason is required"):
		return "missing required field"
	default:
		return "schema validation error"
	}
}
