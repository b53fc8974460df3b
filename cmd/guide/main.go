package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aryanagarwal/guide/internal/diff"
	"github.com/aryanagarwal/guide/internal/philosophy"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

func main() {
	root := &cobra.Command{
		Use:   "guide",
		Short: "Score daily activity against a personal philosophy",
		Long: "Guide watches what you do, scores each activity against a declared\n" +
			"philosophy document, and nudges you when your behavior drifts from it.",
	}

	root.AddCommand(newCheckCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newEvaluateCmd())
	root.AddCommand(newInsightsCmd())
	root.AddCommand(newMonitorCmd())

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

// loadDocument loads the philosophy at path, or the builtin document when
// path is empty.
func loadDocument(path string) (*philosophy.Document, error) {
	if path == "" {
		return philosophy.Default(), nil
	}
	return philosophy.Load(path)
}

func newCheckCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "check [philosophy.json]",
		Short: "Validate a philosophy document and print section counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			doc, err := loadDocument(path)
			if err != nil {
				return codeError(3, "loading philosophy: %s", err)
			}

			counts := struct {
				CoreAttitudes   int `json:"core_attitudes"`
				ToneFeatures    int `json:"tone_features"`
				BehaviourLenses int `json:"behaviour_lenses"`
			}{len(doc.CoreAttitudes), len(doc.ToneFeatures), len(doc.BehaviourLenses)}

			switch format {
			case "json":
				out, err := json.MarshalIndent(counts, "", "  ")
				if err != nil {
					return codeError(3, "rendering counts: %s", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			case "md":
				fmt.Fprintf(cmd.OutOrStdout(),
					"**Valid philosophy document**\n\n- core attitudes: %d\n- tone features: %d\n- behaviour lenses: %d\n",
					counts.CoreAttitudes, counts.ToneFeatures, counts.BehaviourLenses)
			default:
				return codeError(3, "--format must be json or md, got %q", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or md")
	return cmd
}

func newShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show [philosophy.json]",
		Short: "Render a philosophy document (builtin by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			doc, err := loadDocument(path)
			if err != nil {
				return codeError(3, "loading philosophy: %s", err)
			}

			switch format {
			case "json":
				out, err := json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return codeError(3, "rendering document: %s", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			case "md":
				fmt.Fprint(cmd.OutOrStdout(), renderDocMarkdown(doc))
			default:
				return codeError(3, "--format must be json or md, got %q", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "md", "Output format: json or md")
	return cmd
}

func renderDocMarkdown(doc *philosophy.Document) string {
	var b strings.Builder
	b.WriteString("# Philosophy\n\n## Core Attitudes\n")
	for i, a := range doc.CoreAttitudes {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a)
	}
	b.WriteString("\n## Behaviour Lenses\n")
	for _, name := range doc.LensNames() {
		desc, _ := doc.Lens(name)
		fmt.Fprintf(&b, "- **%s**: %s\n", name, desc)
	}
	b.WriteString("\n## Tone Features\n")
	for _, f := range doc.ToneFeatures {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	return b.String()
}

func newDiffCmd() *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "diff <a.json> <b.json>",
		Short: "Compare two philosophy documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := philosophy.Load(args[0])
			if err != nil {
				return codeError(3, "loading %s: %s", args[0], err)
			}
			b, err := philosophy.Load(args[1])
			if err != nil {
				return codeError(3, "loading %s: %s", args[1], err)
			}

			var out string
			if pretty {
				out, err = diff.Pretty(a, b)
			} else {
				out, err = diff.Documents(a, b)
			}
			if err != nil {
				return codeError(3, "diffing documents: %s", err)
			}
			if out == "" {
				fmt.Fprintln(os.Stderr, "documents are identical")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			// diff convention: exit 1 when the inputs differ
			return codeError(1, "documents differ")
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Colored terminal diff instead of patch text")
	return cmd
}

// logVerbose writes a message to stderr when verbose mode is enabled.
func logVerbose(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "INFO: "+format+"\n", args...)
	}
}
