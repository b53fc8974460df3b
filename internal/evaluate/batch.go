package evaluate

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/aryanagarwal/guide/internal/activity"
	"github.com/aryanagarwal/guide/internal/verdict"
)

// ScoredEvent pairs a logged event's sentence with its verdict.
type ScoredEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	Activity  string          `json:"activity"`
	Verdict   verdict.Verdict `json:"verdict"`
}

// Batch evaluates every event in order and returns the scored sequence.
// A single failed evaluation aborts the batch: partially scored output would
// silently skew any summary computed from it.
func (e *Evaluator) Batch(ctx context.Context, events []activity.Event) ([]ScoredEvent, error) {
	scored := make([]ScoredEvent, 0, len(events))
	for _, ev := range events {
		sentence := ev.Sentence()
		v, err := e.Evaluate(ctx, sentence)
		if err != nil {
			return nil, fmt.Errorf("evaluating %q: %w", sentence, err)
		}
		scored = append(scored, ScoredEvent{
			Timestamp: ev.Timestamp,
			Activity:  sentence,
			Verdict:   *v,
		})
	}
	return scored, nil
}

// WriteScoredCSV writes scored events as timestamp,activity,category,score,reason.
func WriteScoredCSV(w io.Writer, scored []ScoredEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "activity", "category", "score", "reason"}); err != nil {
		return err
	}
	for _, s := range scored {
		record := []string{
			s.Timestamp.Format(time.RFC3339),
			s.Activity,
			s.Verdict.Category,
			strconv.Itoa(s.Verdict.Score),
			s.Verdict.Reason,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LogScored writes one structured log line per scored event.
func LogScored(logger *slog.Logger, scored []ScoredEvent) {
	for _, s := range scored {
		logger.Info("scored",
			slog.String("activity", s.Activity),
			slog.String("category", s.Verdict.Category),
			slog.Int("score", s.Verdict.Score),
			slog.String("reason", s.Verdict.Reason))
	}
}
