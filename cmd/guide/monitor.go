package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aryanagarwal/guide/internal/activity"
	"github.com/aryanagarwal/guide/internal/config"
	"github.com/aryanagarwal/guide/internal/evaluate"
	"github.com/aryanagarwal/guide/internal/insight"
	"github.com/aryanagarwal/guide/internal/llm"
	"github.com/aryanagarwal/guide/internal/notify"
	"github.com/aryanagarwal/guide/internal/streak"
)

// monitorFlags holds the parsed flags for the monitor command.
type monitorFlags struct {
	windowCmd  string
	browserCmd string
	browserApp string
	idleCmd    string
	insightGap time.Duration
}

func newMonitorCmd() *cobra.Command {
	var flags monitorFlags
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Log activity, score it live, and nudge on streaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.windowCmd, "window-cmd", "xdotool getactivewindow getwindowname", "Command printing the active window name")
	f.StringVar(&flags.browserCmd, "browser-cmd", "", `Command printing "title||url" of the active browser tab`)
	f.StringVar(&flags.browserApp, "browser-app", "Firefox", "Window name substring that triggers the browser command")
	f.StringVar(&flags.idleCmd, "idle-cmd", "", "Command printing seconds since last input")
	f.DurationVar(&flags.insightGap, "insight-interval", 10*time.Minute, "How often the detectors re-scan the log")

	return cmd
}

func runMonitor(cmd *cobra.Command, flags monitorFlags) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(".", logger)
	if err != nil {
		return codeError(3, "loading config: %s", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, stopSource, err := documentSource(ctx, cfg.Paths.Philosophy, logger)
	if err != nil {
		return codeError(3, "loading philosophy: %s", err)
	}
	defer stopSource()

	provider, err := llm.NewProvider(cfg.Model.Name)
	if err != nil {
		return codeError(4, "creating LLM provider: %s", err)
	}

	cache, closeCache, err := openCache(ctx, cfg, false)
	if err != nil {
		return codeError(4, "opening verdict cache: %s", err)
	}
	defer closeCache()

	writer, err := activity.NewWriter(cfg.Paths.BehaviorLog)
	if err != nil {
		return codeError(3, "opening behavior log: %s", err)
	}
	defer writer.Close()

	evaluator := &evaluate.Evaluator{
		Provider:    provider,
		Source:      source,
		Cache:       cache,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
		Log:         logger,
	}

	var notifier notify.Notifier = notify.LogNotifier{Log: logger}
	if cfg.Monitor.NotifyCommand != "" {
		notifier = notify.Fanout{
			notify.LogNotifier{Log: logger},
			notify.CommandNotifier{Command: cfg.Monitor.NotifyCommand},
		}
	}

	// Buffered so a slow LLM call never stalls the sampling loop; an event
	// dropped here is still on disk for a later batch evaluate.
	eventCh := make(chan activity.Event, 64)

	sampler := &activity.CommandSampler{
		WindowCommand:  flags.windowCmd,
		BrowserCommand: flags.browserCmd,
		BrowserMatch:   flags.browserApp,
		IdleCommand:    flags.idleCmd,
	}

	actLogger := &activity.Logger{
		Sampler:       sampler,
		Writer:        writer,
		Interval:      cfg.Monitor.Interval,
		IdleThreshold: cfg.Monitor.IdleThreshold,
		Log:           logger,
		Sink: func(e activity.Event) {
			select {
			case eventCh <- e:
			default:
				logger.Warn("evaluation queue full, skipping live score", "kind", string(e.Kind))
			}
		},
	}

	go scoreLoop(ctx, eventCh, evaluator, notifier, logger)
	go insightLoop(ctx, cfg, flags.insightGap, logger)

	logger.Info("monitor started",
		"log", cfg.Paths.BehaviorLog,
		"model", cfg.Model.Name,
		"interval", cfg.Monitor.Interval.String())

	if err := actLogger.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return codeError(5, "monitor loop: %s", err)
	}
	logger.Info("monitor stopped")
	return nil
}

// scoreLoop evaluates logged events as they arrive and feeds the streak
// tracker.
func scoreLoop(ctx context.Context, events <-chan activity.Event, ev *evaluate.Evaluator, notifier notify.Notifier, logger *slog.Logger) {
	tracker := &streak.Tracker{}
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-events:
			v, err := ev.Evaluate(ctx, e.Sentence())
			if err != nil {
				logger.Warn("live evaluation failed", "error", err.Error())
				continue
			}
			logger.Info("scored",
				"activity", e.Sentence(),
				"category", v.Category,
				"score", v.Score,
				"reason", v.Reason)
			for _, n := range tracker.Observe(*v) {
				if err := notifier.Notify(ctx, n); err != nil {
					logger.Warn("notification failed", "error", err.Error())
				}
			}
		}
	}
}

// insightLoop periodically re-runs the detectors over the recent log and
// appends new findings to the semantic log.
func insightLoop(ctx context.Context, cfg *config.Config, gap time.Duration, logger *slog.Logger) {
	engine := &insight.Engine{}
	ticker := time.NewTicker(gap)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			events, err := activity.ReadLog(cfg.Paths.BehaviorLog, logger)
			if err != nil {
				logger.Warn("insight scan failed", "error", err.Error())
				continue
			}
			findings := engine.Run(events)
			if len(findings) == 0 {
				continue
			}
			if err := insight.AppendCSV(cfg.Paths.SemanticLog, findings); err != nil {
				logger.Warn("semantic log write failed", "error", err.Error())
				continue
			}
			for _, f := range findings {
				logger.Info("finding", "kind", f.Kind, "details", f.Details)
			}
		}
	}
}
