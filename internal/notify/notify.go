// Package notify delivers streak notices to the user.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/aryanagarwal/guide/internal/streak"
)

// Notifier delivers a single notice.
type Notifier interface {
	Notify(ctx context.Context, n streak.Notice) error
}

// LogNotifier writes notices to a structured logger. It is the fallback when
// no desktop notifier is configured.
type LogNotifier struct {
	Log *slog.Logger
}

func (l LogNotifier) Notify(_ context.Context, n streak.Notice) error {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("notice", "kind", string(n.Kind), "title", n.Title, "message", n.Message)
	return nil
}

// CommandNotifier shells out to a desktop notification tool. The title and
// message are appended as the final two arguments, so a typical command is
// "notify-send" or "osascript" wrappers.
type CommandNotifier struct {
	Command string
	Args    []string
}

func (c CommandNotifier) Notify(ctx context.Context, n streak.Notice) error {
	args := append(append([]string{}, c.Args...), n.Title, n.Message)
	cmd := exec.CommandContext(ctx, c.Command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("notify command %q: %w: %s", c.Command, err, out)
	}
	return nil
}

// NopNotifier discards notices.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, streak.Notice) error { return nil }

// Fanout sends each notice to every notifier, returning the first error.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n streak.Notice) error {
	var firstErr error
	for _, nt := range f {
		if err := nt.Notify(ctx, n); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
