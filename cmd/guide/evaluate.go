package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aryanagarwal/guide/internal/activity"
	"github.com/aryanagarwal/guide/internal/config"
	"github.com/aryanagarwal/guide/internal/evaluate"
	"github.com/aryanagarwal/guide/internal/insight"
	"github.com/aryanagarwal/guide/internal/llm"
	"github.com/aryanagarwal/guide/internal/philosophy"
	"github.com/aryanagarwal/guide/internal/report"
	"github.com/aryanagarwal/guide/internal/streak"
)

// evaluateFlags holds the parsed flags for the evaluate command.
type evaluateFlags struct {
	in         string
	out        string
	format     string
	reportOut  string
	philosophy string
	failOn     string
	noCache    bool
	verbose    bool
}

func newEvaluateCmd() *cobra.Command {
	var flags evaluateFlags
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score every event in a behavior log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.in, "in", "", "Behavior log to score (default from config)")
	f.StringVar(&flags.out, "out", "", "Write scored events as CSV to this file")
	f.StringVar(&flags.format, "format", "json", "Report format: json or md")
	f.StringVar(&flags.reportOut, "report-out", "", "Write the report to a file instead of stdout")
	f.StringVar(&flags.philosophy, "philosophy", "", "Philosophy document (default from config, else builtin)")
	f.StringVar(&flags.failOn, "fail-on", "", "Exit 2 if verdict >= this level (DRIFTING or DENYING)")
	f.BoolVar(&flags.noCache, "no-cache", false, "Skip the verdict cache")
	f.BoolVar(&flags.verbose, "verbose", false, "Print processing steps to stderr")

	return cmd
}

func runEvaluate(cmd *cobra.Command, flags evaluateFlags) error {
	if flags.format != "json" && flags.format != "md" {
		return codeError(3, "--format must be json or md, got %q", flags.format)
	}
	if flags.failOn != "" {
		switch report.Verdict(flags.failOn) {
		case report.VerdictDrifting, report.VerdictDenying:
		default:
			return codeError(3, "--fail-on must be DRIFTING or DENYING, got %q", flags.failOn)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(".", logger)
	if err != nil {
		return codeError(3, "loading config: %s", err)
	}
	if flags.in == "" {
		flags.in = cfg.Paths.BehaviorLog
	}
	if flags.philosophy == "" {
		flags.philosophy = cfg.Paths.Philosophy
	}

	logVerbose(flags.verbose, "Loading philosophy: %s", orBuiltin(flags.philosophy))
	doc, err := loadDocument(flags.philosophy)
	if err != nil {
		return codeError(3, "loading philosophy: %s", err)
	}

	logVerbose(flags.verbose, "Reading behavior log: %s", flags.in)
	events, err := activity.ReadLog(flags.in, logger)
	if err != nil {
		return codeError(3, "reading behavior log: %s", err)
	}

	provider, err := llm.NewProvider(cfg.Model.Name)
	if err != nil {
		return codeError(4, "creating LLM provider: %s", err)
	}

	ctx := cmd.Context()
	cache, closeCache, err := openCache(ctx, cfg, flags.noCache)
	if err != nil {
		return codeError(4, "opening verdict cache: %s", err)
	}
	defer closeCache()

	ev := &evaluate.Evaluator{
		Provider:    provider,
		Source:      evaluate.StaticDocument{Doc: doc},
		Cache:       cache,
		Temperature: cfg.Model.Temperature,
		MaxTokens:   cfg.Model.MaxTokens,
		Log:         logger,
	}

	logVerbose(flags.verbose, "Scoring %d event(s) with %s", len(events), cfg.Model.Name)
	scored, err := ev.Batch(ctx, events)
	if err != nil {
		return codeError(5, "scoring events: %s", err)
	}

	if flags.out != "" {
		f, err := os.Create(flags.out)
		if err != nil {
			return codeError(3, "creating scored output: %s", err)
		}
		defer f.Close()
		if err := evaluate.WriteScoredCSV(f, scored); err != nil {
			return codeError(3, "writing scored output: %s", err)
		}
	}

	// Replay scored events through the streak tracker so the report captures
	// the notices a live monitor would have raised.
	var notices []streak.Notice
	tracker := &streak.Tracker{}
	for _, s := range scored {
		notices = append(notices, tracker.Observe(s.Verdict)...)
	}

	engine := &insight.Engine{}
	findings := engine.Run(events)

	rep := &report.Report{
		Tool:    "guide",
		Version: version,
		Input: report.Input{
			LogFile:    flags.in,
			Philosophy: orBuiltin(flags.philosophy),
			EventCount: len(events),
		},
		Summary:  report.Summarize(scored),
		Scored:   scored,
		Notices:  notices,
		Findings: findings,
		Meta:     report.Meta{Model: cfg.Model.Name, Temperature: cfg.Model.Temperature},
	}

	renderer, err := report.NewRenderer(flags.format)
	if err != nil {
		return codeError(3, "invalid format: %s", err)
	}
	outputBytes, err := renderer.Render(rep)
	if err != nil {
		return codeError(3, "rendering report: %s", err)
	}

	if flags.reportOut != "" {
		if err := os.WriteFile(flags.reportOut, outputBytes, 0o644); err != nil {
			return codeError(3, "writing report file: %s", err)
		}
	} else {
		if _, err := cmd.OutOrStdout().Write(outputBytes); err != nil {
			return codeError(3, "writing report: %s", err)
		}
		if len(outputBytes) > 0 && outputBytes[len(outputBytes)-1] != '\n' {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}

	if flags.failOn != "" {
		threshold := report.Verdict(flags.failOn)
		if report.VerdictOrdinal(rep.Summary.Verdict) >= report.VerdictOrdinal(threshold) {
			return codeError(2, "verdict %s meets or exceeds --fail-on threshold %s", rep.Summary.Verdict, threshold)
		}
	}

	return nil
}

// openCache returns the configured verdict cache and a cleanup func.
func openCache(ctx context.Context, cfg *config.Config, noCache bool) (evaluate.Cache, func(), error) {
	if noCache {
		return evaluate.NopCache{}, func() {}, nil
	}
	if cfg.Redis.Addr != "" {
		rc, err := evaluate.DialRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.TTL)
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { rc.Close() }, nil
	}
	fc, err := evaluate.NewFileCache(cfg.Paths.CacheDir)
	if err != nil {
		return nil, nil, err
	}
	return fc, func() {}, nil
}

func orBuiltin(path string) string {
	if path == "" {
		return "builtin"
	}
	return path
}

func newInsightsCmd() *cobra.Command {
	var in, out string
	var verbose bool
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Derive semantic findings from a behavior log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			cfg, err := config.Load(".", logger)
			if err != nil {
				return codeError(3, "loading config: %s", err)
			}
			if in == "" {
				in = cfg.Paths.BehaviorLog
			}
			if out == "" {
				out = cfg.Paths.SemanticLog
			}

			events, err := activity.ReadLog(in, logger)
			if err != nil {
				return codeError(3, "reading behavior log: %s", err)
			}

			engine := &insight.Engine{}
			findings := engine.Run(events)
			logVerbose(verbose, "Detectors produced %d finding(s)", len(findings))

			if len(findings) > 0 {
				if err := insight.AppendCSV(out, findings); err != nil {
					return codeError(3, "writing semantic log: %s", err)
				}
			}
			for _, f := range findings {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", f.Timestamp.Format("15:04"), f.Kind, f.Details)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Behavior log to analyze (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "Semantic log to append to (default from config)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Print processing steps to stderr")
	return cmd
}

// documentSource returns a live-reloading source when a philosophy path is
// configured, or the builtin document otherwise.
func documentSource(ctx context.Context, path string, logger *slog.Logger) (evaluate.DocumentSource, func(), error) {
	if path == "" {
		return evaluate.StaticDocument{Doc: philosophy.Default()}, func() {}, nil
	}
	w, err := philosophy.NewWatcher(path, logger)
	if err != nil {
		return nil, nil, err
	}
	watchCtx, cancel := context.WithCancel(ctx)
	go w.Run(watchCtx)
	return w, cancel, nil
}
