// Package philosophy loads and validates the philosophy document: the static
// JSON artifact holding the core attitudes, tone features, and behaviour
// lenses that the evaluator injects into its prompts.
package philosophy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	goskema "github.com/reoring/goskema"
	d "github.com/reoring/goskema/dsl"
)

// Sentinel errors for load failures. Callers classify with errors.Is.
var (
	// ErrMalformed means the input is not parseable JSON.
	ErrMalformed = errors.New("malformed philosophy document")
	// ErrSchema means the input parsed but does not match the document shape:
	// a missing field, a wrong field type, a duplicate or unknown key, or an
	// empty string entry.
	ErrSchema = errors.New("philosophy document schema mismatch")
)

// Document is the in-memory value produced by loading the artifact. It is
// created once and never mutated; order of the two lists is preserved as
// authored.
type Document struct {
	CoreAttitudes   []string          `json:"core_attitudes"`
	ToneFeatures    []string          `json:"tone_features"`
	BehaviourLenses map[string]string `json:"behaviour_lenses"`
}

// docSchema validates the three-field shape. Unknown top-level keys are
// rejected; duplicate-key enforcement happens at parse time via ParseOpt.
var docSchema = d.ObjectTyped[Document]().
	Field("core_attitudes", d.ArrayOf[string](d.String())).Required().
	Field("tone_features", d.ArrayOf[string](d.String())).Required().
	Field("behaviour_lenses", d.MapOf[string](d.String())).Required().
	UnknownStrict().
	MustBind()

// Parse validates raw JSON bytes and returns the document.
func Parse(data []byte) (*Document, error) {
	// Syntax errors are checked up front: goskema also reports element-level
	// type mismatches under a parse-error code, so its codes alone cannot
	// separate unparseable input from a wrong shape.
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	opt := goskema.ParseOpt{
		Strictness: goskema.Strictness{OnDuplicateKey: goskema.Error},
	}
	doc, err := goskema.ParseFrom(context.Background(), docSchema, goskema.JSONBytes(data), opt)
	if err != nil {
		return nil, classify(err)
	}

	for i, a := range doc.CoreAttitudes {
		if a == "" {
			return nil, fmt.Errorf("%w: core_attitudes[%d] is empty", ErrSchema, i)
		}
	}
	for i, f := range doc.ToneFeatures {
		if f == "" {
			return nil, fmt.Errorf("%w: tone_features[%d] is empty", ErrSchema, i)
		}
	}
	for k, v := range doc.BehaviourLenses {
		if k == "" {
			return nil, fmt.Errorf("%w: behaviour_lenses has an empty key", ErrSchema)
		}
		if v == "" {
			return nil, fmt.Errorf("%w: behaviour_lenses[%q] has an empty description", ErrSchema, k)
		}
	}

	return &doc, nil
}

// Load reads and validates a philosophy document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading philosophy document: %w", err)
	}
	return Parse(data)
}

// classify wraps goskema errors as schema mismatches. Parse only reaches the
// schema once the input is known to be valid JSON, so whatever goskema
// reports here is a shape problem, element-level parse codes included.
func classify(err error) error {
	if iss, ok := goskema.AsIssues(err); ok {
		return fmt.Errorf("%w: %s", ErrSchema, iss.Error())
	}
	return fmt.Errorf("%w: %v", ErrSchema, err)
}

// LensNames returns the lens names in sorted order. The source mapping
// carries no ordering semantics, so display order is made deterministic here.
func (doc *Document) LensNames() []string {
	names := make([]string, 0, len(doc.BehaviourLenses))
	for name := range doc.BehaviourLenses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lens returns the description for a named lens.
func (doc *Document) Lens(name string) (string, bool) {
	desc, ok := doc.BehaviourLenses[name]
	return desc, ok
}

// MarshalJSON re-serializes the document. Loading the output again yields a
// value equal to the original.
func (doc *Document) MarshalJSON() ([]byte, error) {
	type wire Document // avoid recursing into MarshalJSON
	return json.Marshal(wire(*doc))
}
