// Package activity defines the behavior log: timestamped events describing
// what the user was doing, stored as CSV rows of timestamp,event,details.
package activity

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies the type of a logged event.
type Kind string

const (
	KindAppSwitch  Kind = "app_switch"
	KindAppUsage   Kind = "app_usage"
	KindBrowserTab Kind = "browser_tab"
	KindInactivity Kind = "inactivity"
)

// Event is one row of the behavior log. Details is a free-form field whose
// interpretation depends on Kind: app_usage carries "app|seconds", browser_tab
// carries "title|url".
type Event struct {
	Timestamp time.Time
	Kind      Kind
	Details   string
}

// firstClause returns the text before the first '|' separator.
func firstClause(s string) string {
	if i := strings.IndexByte(s, '|'); i >= 0 {
		return s[:i]
	}
	return s
}

// secondClause returns the text after the first '|' separator, or "".
func secondClause(s string) string {
	if i := strings.IndexByte(s, '|'); i >= 0 {
		return s[i+1:]
	}
	return ""
}

// Sentence converts the event into a human-readable activity description
// suitable for an evaluation prompt. Snapshot event kinds written by older
// loggers (app_snapshot, browser_tab_snapshot) are handled by prefix match.
func (e Event) Sentence() string {
	switch {
	case strings.HasPrefix(string(e.Kind), string(KindBrowserTab)):
		return fmt.Sprintf("Visited %q in browser", firstClause(e.Details))
	case strings.HasPrefix(string(e.Kind), string(KindAppSwitch)):
		return "Switched to " + strings.TrimSpace(firstClause(e.Details))
	case strings.HasPrefix(string(e.Kind), string(KindAppUsage)):
		return "Used " + strings.TrimSpace(firstClause(e.Details))
	case e.Kind == KindInactivity:
		return "Away from the computer for " + e.Details + " seconds"
	default:
		return string(e.Kind)
	}
}

// UsageSeconds returns the duration clause of an app_usage event. It returns
// 0 for events without a parseable duration.
func (e Event) UsageSeconds() float64 {
	var secs float64
	if _, err := fmt.Sscanf(secondClause(e.Details), "%f", &secs); err != nil {
		return 0
	}
	return secs
}
