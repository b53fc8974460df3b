// Package rubric turns a philosophy document into the prompts used to
// classify activity. The document's attitudes become diagnostic rules, its
// tone features become voice directives, and its behaviour lenses become the
// analytical frames the critic is told to apply.
package rubric

import (
	"fmt"
	"strings"

	"github.com/aryanagarwal/guide/internal/philosophy"
)

// Categories are the activity classifications the critic may assign.
var Categories = []string{
	"deep_work", "learning", "research", "admin", "break_fun", "social", "vice",
}

// ScoreMin and ScoreMax bound the life-affirmation score.
const (
	ScoreMin = -5
	ScoreMax = 5
)

const systemPromptBase = `You are a philosophical critic of everyday behaviour. You judge a single
logged activity against the philosophy below and return a verdict.

Scoring rules:
- score ranges from %d (life-denying) to %d (life-affirming)
- judge the activity itself, not the person
- reason must be at most 12 words

Output rules:
- Return JSON only — no prose, no markdown fences, no explanation
- JSON must match the provided schema exactly`

const schemaExample = `{
  "category": "deep_work",
  "score": 4,
  "reason": "Sustained creative effort expanding capability"
}`

// BuildSystemPrompt renders the critic's system prompt from a philosophy
// document. List order of attitudes and tone features is preserved as
// authored; lens names are emitted in sorted order.
func BuildSystemPrompt(doc *philosophy.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, systemPromptBase, ScoreMin, ScoreMax)

	sb.WriteString("\n\nCore attitudes (diagnostic rules, in order of emphasis):\n")
	for i, a := range doc.CoreAttitudes {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, a)
	}

	sb.WriteString("\nBehaviour lenses (examine the activity through each):\n")
	for _, name := range doc.LensNames() {
		desc, _ := doc.Lens(name)
		fmt.Fprintf(&sb, "- %s: %s\n", name, desc)
	}

	sb.WriteString("\nTone of your reason field:\n")
	for _, f := range doc.ToneFeatures {
		fmt.Fprintf(&sb, "- %s\n", f)
	}

	return sb.String()
}

// BuildUserPrompt renders the per-activity user prompt.
func BuildUserPrompt(activity string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Categories = %s\n\n", strings.Join(Categories, ", "))
	fmt.Fprintf(&sb, "ACTIVITY: %q\n", activity)
	sb.WriteString("\nReturn your verdict as JSON with this structure:\n")
	sb.WriteString(schemaExample)
	return sb.String()
}

// IsValidCategory reports whether c is one of the defined categories.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}
