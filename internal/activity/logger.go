package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Logger polls a Sampler and appends events to the behavior log. It emits
// app_switch when the foreground app changes, app_usage with the elapsed
// seconds for the previous app, browser_tab while a browser is frontmost,
// and inactivity once per idle period crossing the threshold.
type Logger struct {
	Sampler       Sampler
	Writer        *Writer
	Interval      time.Duration
	IdleThreshold time.Duration
	Log           *slog.Logger

	// Sink receives each appended event; optional, used by monitor mode to
	// feed the evaluator without re-reading the file.
	Sink func(Event)

	prevApp  string
	appStart time.Time
	wasIdle  bool
}

// Run samples until ctx is cancelled.
func (l *Logger) Run(ctx context.Context) error {
	if l.Log == nil {
		l.Log = slog.Default()
	}
	if l.Interval <= 0 {
		l.Interval = 5 * time.Second
	}

	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := l.tick(ctx, time.Now()); err != nil {
				l.Log.Warn("sample failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (l *Logger) tick(ctx context.Context, now time.Time) error {
	s, err := l.Sampler.Sample(ctx)
	if err != nil {
		return err
	}

	// Idle edge detection: one event per idle period.
	if l.IdleThreshold > 0 {
		idle := s.Idle >= l.IdleThreshold
		if idle && !l.wasIdle {
			l.emit(Event{Timestamp: now, Kind: KindInactivity, Details: fmt.Sprintf("%d", int(s.Idle.Seconds()))})
		}
		l.wasIdle = idle
	}

	if s.TabTitle != "" {
		l.emit(Event{Timestamp: now, Kind: KindBrowserTab, Details: s.TabTitle + "|" + s.TabURL})
	}

	if s.App != l.prevApp {
		if l.prevApp != "" && !l.wasIdle {
			dur := now.Sub(l.appStart).Seconds()
			l.emit(Event{Timestamp: now, Kind: KindAppUsage, Details: fmt.Sprintf("%s|%.2f", l.prevApp, dur)})
		}
		l.emit(Event{Timestamp: now, Kind: KindAppSwitch, Details: s.App})
		l.prevApp = s.App
		l.appStart = now
	}

	return nil
}

func (l *Logger) emit(e Event) {
	if err := l.Writer.Append(e); err != nil {
		l.Log.Warn("log append failed", slog.String("error", err.Error()))
		return
	}
	if l.Sink != nil {
		l.Sink(e)
	}
}
