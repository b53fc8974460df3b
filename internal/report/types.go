// Package report assembles scored activity into an evaluation report and
// renders it as json or markdown.
package report

import (
	"github.com/aryanagarwal/guide/internal/evaluate"
	"github.com/aryanagarwal/guide/internal/insight"
	"github.com/aryanagarwal/guide/internal/streak"
)

// Report is the top-level output structure of an evaluation run.
type Report struct {
	Tool     string                 `json:"tool"`
	Version  string                 `json:"version"`
	Input    Input                  `json:"input"`
	Summary  Summary                `json:"summary"`
	Scored   []evaluate.ScoredEvent `json:"scored"`
	Notices  []streak.Notice        `json:"notices,omitempty"`
	Findings []insight.Finding      `json:"findings,omitempty"`
	Meta     Meta                   `json:"meta"`
}

// Input captures the parameters used for this run.
type Input struct {
	LogFile    string `json:"log_file"`
	Philosophy string `json:"philosophy"` // path, or "builtin"
	EventCount int    `json:"event_count"`
}

// Summary holds the computed verdict, mean score, and per-category counts.
type Summary struct {
	Verdict        Verdict        `json:"verdict"`
	MeanScore      float64        `json:"mean_score"`
	CategoryCounts map[string]int `json:"category_counts"`
}

// Meta holds runtime metadata about the LLM calls.
type Meta struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

// Verdict is the overall life-affirmation assessment of the window.
type Verdict string

const (
	VerdictAffirming Verdict = "AFFIRMING"
	VerdictDrifting  Verdict = "DRIFTING"
	VerdictDenying   Verdict = "DENYING"
)

// VerdictOrdinal returns the numeric ordering for a verdict, used by the
// --fail-on comparison. AFFIRMING(0) < DRIFTING(1) < DENYING(2).
// Returns -1 for an unrecognised verdict.
func VerdictOrdinal(v Verdict) int {
	switch v {
	case VerdictAffirming:
		return 0
	case VerdictDrifting:
		return 1
	case VerdictDenying:
		return 2
	default:
		return -1
	}
}
