package activity

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Sample is one observation of what is currently in the foreground.
type Sample struct {
	App      string // active window/application title
	TabTitle string // browser tab title, when the browser is frontmost
	TabURL   string // browser tab URL, when the browser is frontmost
	Idle     time.Duration
}

// Sampler observes the current foreground activity. Implementations are
// platform-specific; the logger only depends on this interface.
type Sampler interface {
	Sample(ctx context.Context) (Sample, error)
}

// CommandSampler shells out to user-configured commands to observe the
// desktop. Each command prints its answer on stdout. The browser command is
// expected to print "title||url"; the idle command prints idle seconds.
// Empty commands disable the corresponding observation.
type CommandSampler struct {
	WindowCommand  string // e.g. `xdotool getactivewindow getwindowname`
	BrowserCommand string // prints "title||url" of the active tab
	BrowserMatch   string // substring of App that triggers the browser command
	IdleCommand    string // prints seconds since last input
}

func (s *CommandSampler) Sample(ctx context.Context) (Sample, error) {
	var out Sample

	app, err := runShell(ctx, s.WindowCommand)
	if err != nil {
		return out, fmt.Errorf("window command: %w", err)
	}
	out.App = app
	if out.App == "" {
		out.App = "Unknown"
	}

	if s.BrowserCommand != "" && s.BrowserMatch != "" && strings.Contains(out.App, s.BrowserMatch) {
		raw, err := runShell(ctx, s.BrowserCommand)
		if err == nil {
			title, url, found := strings.Cut(raw, "||")
			if found {
				out.TabTitle = title
				out.TabURL = url
			}
		}
	}

	if s.IdleCommand != "" {
		raw, err := runShell(ctx, s.IdleCommand)
		if err == nil {
			var secs float64
			if _, err := fmt.Sscanf(raw, "%f", &secs); err == nil {
				out.Idle = time.Duration(secs * float64(time.Second))
			}
		}
	}

	return out, nil
}

func runShell(ctx context.Context, command string) (string, error) {
	if command == "" {
		return "", nil
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	raw, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
