package report

import "github.com/aryanagarwal/guide/internal/evaluate"

// Verdict boundaries on the mean score. Mean at or above the affirming bound
// is AFFIRMING; mean at or below the denying bound is DENYING.
const (
	affirmingBound = 1.0
	denyingBound   = -1.0
)

// Summarize computes the deterministic summary from scored events: mean
// score, per-category counts, and the overall verdict. An empty window is
// DRIFTING with a zero mean.
func Summarize(scored []evaluate.ScoredEvent) Summary {
	counts := make(map[string]int)
	total := 0
	for _, s := range scored {
		counts[s.Verdict.Category]++
		total += s.Verdict.Score
	}

	var mean float64
	if len(scored) > 0 {
		mean = float64(total) / float64(len(scored))
	}

	verdict := VerdictDrifting
	switch {
	case len(scored) == 0:
		verdict = VerdictDrifting
	case mean >= affirmingBound:
		verdict = VerdictAffirming
	case mean <= denyingBound:
		verdict = VerdictDenying
	}

	return Summary{
		Verdict:        verdict,
		MeanScore:      mean,
		CategoryCounts: counts,
	}
}
