// Package insight derives semantic findings from the raw behavior log:
// patterns a single event cannot show, like sustained work collapsing into a
// long distraction, or compulsive switching between applications.
package insight

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aryanagarwal/guide/internal/activity"
)

// Finding kinds.
const (
	KindProcrastination   = "procrastination_avoidance"
	KindHyperResponsivity = "hyper_responsivity"
)

// Default detector parameters.
const (
	DefaultWindow          = 60 * time.Minute
	DefaultWorkSeconds     = 900 // sustained work before a lapse counts
	DefaultDistractSeconds = 600 // distraction long enough to count
	DefaultSwitchLimit     = 20  // switches per window that signal restlessness
)

// Finding is one derived semantic event.
type Finding struct {
	ID        string
	Timestamp time.Time
	Kind      string
	Details   string
}

// Engine runs the detectors over a window of the behavior log. Zero values
// select the defaults.
type Engine struct {
	Window          time.Duration
	WorkApps        []string // apps treated as work, matched by substring
	DistractApps    []string // apps and tab titles treated as distraction
	WorkSeconds     float64
	DistractSeconds float64
	SwitchLimit     int

	// Now is overridable for tests.
	Now func() time.Time
}

func (e *Engine) defaults() {
	if e.Window == 0 {
		e.Window = DefaultWindow
	}
	if len(e.WorkApps) == 0 {
		e.WorkApps = []string{"Writer", "Code", "Terminal", "Emacs", "Vim"}
	}
	if len(e.DistractApps) == 0 {
		e.DistractApps = []string{"YouTube", "Twitter", "Reddit", "Netflix"}
	}
	if e.WorkSeconds == 0 {
		e.WorkSeconds = DefaultWorkSeconds
	}
	if e.DistractSeconds == 0 {
		e.DistractSeconds = DefaultDistractSeconds
	}
	if e.SwitchLimit == 0 {
		e.SwitchLimit = DefaultSwitchLimit
	}
	if e.Now == nil {
		e.Now = time.Now
	}
}

func matchesAny(s string, names []string) bool {
	for _, n := range names {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// Run applies every detector to the recent slice of events and returns the
// findings, each stamped with a fresh uuid.
func (e *Engine) Run(events []activity.Event) []Finding {
	e.defaults()
	recent := e.recent(events)
	var findings []Finding
	findings = append(findings, e.detectProcrastination(recent)...)
	findings = append(findings, e.detectHyperResponsivity(recent)...)
	return findings
}

func (e *Engine) recent(events []activity.Event) []activity.Event {
	cutoff := e.Now().Add(-e.Window)
	var out []activity.Event
	for _, ev := range events {
		if !ev.Timestamp.Before(cutoff) {
			out = append(out, ev)
		}
	}
	return out
}

// detectProcrastination finds a long work usage followed later in the window
// by a long distraction usage. The finding is stamped with the distraction's
// timestamp, when the lapse became visible.
func (e *Engine) detectProcrastination(events []activity.Event) []Finding {
	var findings []Finding
	for _, w := range events {
		if w.Kind != activity.KindAppUsage || !matchesAny(w.Details, e.WorkApps) || w.UsageSeconds() < e.WorkSeconds {
			continue
		}
		for _, d := range events {
			if d.Kind != activity.KindAppUsage || !matchesAny(d.Details, e.DistractApps) || d.UsageSeconds() < e.DistractSeconds {
				continue
			}
			if d.Timestamp.After(w.Timestamp) {
				findings = append(findings, Finding{
					ID:        uuid.NewString(),
					Timestamp: d.Timestamp,
					Kind:      KindProcrastination,
					Details:   fmt.Sprintf("%s→%s", w.Details, d.Details),
				})
				break
			}
		}
	}
	return findings
}

func (e *Engine) detectHyperResponsivity(events []activity.Event) []Finding {
	var switches []activity.Event
	for _, ev := range events {
		if ev.Kind == activity.KindAppSwitch {
			switches = append(switches, ev)
		}
	}
	if len(switches) < e.SwitchLimit {
		return nil
	}
	last := switches[len(switches)-1]
	return []Finding{{
		ID:        uuid.NewString(),
		Timestamp: last.Timestamp,
		Kind:      KindHyperResponsivity,
		Details:   fmt.Sprintf("%d switches in window", len(switches)),
	}}
}
