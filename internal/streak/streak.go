// Package streak watches a stream of verdicts for sustained runs of
// life-affirming or life-denying activity and for changes of trend.
package streak

import (
	"fmt"

	"github.com/aryanagarwal/guide/internal/verdict"
)

// Default thresholds.
const (
	DefaultGoodThreshold = 4  // score >= this counts as good
	DefaultBadThreshold  = -4 // score <= this counts as bad
	DefaultStreakLen     = 3  // consecutive events that make a streak
)

// NoticeKind identifies why a notice fired.
type NoticeKind string

const (
	NoticeSustainedGood NoticeKind = "sustained_good"
	NoticeSustainedBad  NoticeKind = "sustained_bad"
	NoticeTrendFlip     NoticeKind = "trend_flip"
)

// Notice is a user-facing nudge produced by the tracker.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
}

// Tracker accumulates verdicts and emits notices. Zero values for the
// thresholds select the defaults. Not safe for concurrent use; monitor mode
// feeds it from a single goroutine.
type Tracker struct {
	GoodThreshold int
	BadThreshold  int
	StreakLen     int

	goodRun int
	badRun  int
	// lastTrend is +1 after a good streak fired, -1 after a bad one, 0 before
	// either. Used to detect flips.
	lastTrend int
}

func (t *Tracker) thresholds() (good, bad, length int) {
	good, bad, length = t.GoodThreshold, t.BadThreshold, t.StreakLen
	if good == 0 {
		good = DefaultGoodThreshold
	}
	if bad == 0 {
		bad = DefaultBadThreshold
	}
	if length == 0 {
		length = DefaultStreakLen
	}
	return
}

// Observe feeds one verdict to the tracker and returns any notices it fires.
// A streak notice re-arms only after the run is broken, so an unbroken run of
// six good events fires exactly once.
func (t *Tracker) Observe(v verdict.Verdict) []Notice {
	good, bad, length := t.thresholds()

	var notices []Notice

	switch {
	case v.Score >= good:
		t.goodRun++
		t.badRun = 0
	case v.Score <= bad:
		t.badRun++
		t.goodRun = 0
	default:
		t.goodRun = 0
		t.badRun = 0
	}

	if t.goodRun == length {
		if t.lastTrend == -1 {
			notices = append(notices, Notice{
				Kind:    NoticeTrendFlip,
				Title:   "Trend reversed",
				Message: "You have pulled out of the slide. Keep building.",
			})
		}
		notices = append(notices, Notice{
			Kind:    NoticeSustainedGood,
			Title:   "Sustained strength",
			Message: fmt.Sprintf("%d life-affirming activities in a row. This is self-overcoming.", length),
		})
		t.lastTrend = 1
	}

	if t.badRun == length {
		if t.lastTrend == 1 {
			notices = append(notices, Notice{
				Kind:    NoticeTrendFlip,
				Title:   "Trend reversed",
				Message: "A strong run has turned. Notice what pulled you away.",
			})
		}
		notices = append(notices, Notice{
			Kind:    NoticeSustainedBad,
			Title:   "Sustained drift",
			Message: fmt.Sprintf("%d life-denying activities in a row. Last verdict: %s.", length, v.Reason),
		})
		t.lastTrend = -1
	}

	return notices
}
