package philosophy

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const validDoc = `{
  "core_attitudes": ["Critique of traditional moral values", "Life first"],
  "tone_features": ["Polemical", "Skeptical and questioning"],
  "behaviour_lenses": {
    "Equilibrium": "The balance of power and justice within a community.",
    "Moral Critique": "The origin and worth of the values an action serves."
  }
}`

func writeTempDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "philosophy.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse_Valid(t *testing.T) {
	doc, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(doc.CoreAttitudes) != 2 {
		t.Errorf("CoreAttitudes length = %d, want 2", len(doc.CoreAttitudes))
	}
	if doc.CoreAttitudes[0] != "Critique of traditional moral values" {
		t.Errorf("CoreAttitudes[0] = %q", doc.CoreAttitudes[0])
	}
	if desc, ok := doc.Lens("Equilibrium"); !ok || desc != "The balance of power and justice within a community." {
		t.Errorf("Lens(Equilibrium) = %q, %v", desc, ok)
	}
}

func TestLoad_ReadsFromDisk(t *testing.T) {
	path := writeTempDoc(t, validDoc)
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.ToneFeatures) != 2 {
		t.Errorf("ToneFeatures length = %d, want 2", len(doc.ToneFeatures))
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	inputs := []string{
		`{`,
		`{"core_attitudes": [`,
		`not json at all`,
		``,
	}
	for _, in := range inputs {
		_, err := Parse([]byte(in))
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformed", in, err)
		}
		if errors.Is(err, ErrSchema) {
			t.Errorf("Parse(%q) error = %v, must not be ErrSchema", in, err)
		}
	}
}

// A wrong element type inside valid JSON is a shape problem, never a
// malformed document.
func TestParse_WrongElementTypeIsSchemaMismatch(t *testing.T) {
	inputs := []string{
		`{"core_attitudes": [1], "tone_features": ["b"], "behaviour_lenses": {"k": "v"}}`,
		`{"core_attitudes": ["a"], "tone_features": [true], "behaviour_lenses": {"k": "v"}}`,
		`{"core_attitudes": ["a"], "tone_features": ["b"], "behaviour_lenses": {"k": 2}}`,
		`{"core_attitudes": [["a"]], "tone_features": ["b"], "behaviour_lenses": {"k": "v"}}`,
	}
	for _, in := range inputs {
		_, err := Parse([]byte(in))
		if !errors.Is(err, ErrSchema) {
			t.Errorf("Parse(%q) error = %v, want ErrSchema", in, err)
		}
		if errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) error = %v, must not be ErrMalformed", in, err)
		}
	}
}

func TestParse_SchemaMismatch(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"missing behaviour_lenses", `{"core_attitudes": ["a"], "tone_features": ["b"]}`},
		{"attitudes is a mapping", `{"core_attitudes": {"a": "b"}, "tone_features": ["b"], "behaviour_lenses": {"k": "v"}}`},
		{"lenses is a sequence", `{"core_attitudes": ["a"], "tone_features": ["b"], "behaviour_lenses": ["k"]}`},
		{"non-string attitude", `{"core_attitudes": [1], "tone_features": ["b"], "behaviour_lenses": {"k": "v"}}`},
		{"non-string lens value", `{"core_attitudes": ["a"], "tone_features": ["b"], "behaviour_lenses": {"k": 2}}`},
		{"unknown top-level field", `{"core_attitudes": ["a"], "tone_features": ["b"], "behaviour_lenses": {"k": "v"}, "extra": 1}`},
		{"empty attitude string", `{"core_attitudes": [""], "tone_features": ["b"], "behaviour_lenses": {"k": "v"}}`},
		{"empty lens description", `{"core_attitudes": ["a"], "tone_features": ["b"], "behaviour_lenses": {"k": ""}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			if !errors.Is(err, ErrSchema) {
				t.Errorf("error = %v, want ErrSchema", err)
			}
		})
	}
}

func TestParse_DuplicateLensKey(t *testing.T) {
	input := `{
  "core_attitudes": ["a"],
  "tone_features": ["b"],
  "behaviour_lenses": {"Equilibrium": "one", "Equilibrium": "two"}
}`
	_, err := Parse([]byte(input))
	if !errors.Is(err, ErrSchema) {
		t.Errorf("duplicate key error = %v, want ErrSchema", err)
	}
}

func TestRoundTrip_Idempotent(t *testing.T) {
	first, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("first Parse: %v", err)
	}

	out, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	second, err := Parse(out)
	if err != nil {
		t.Fatalf("second Parse: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("round trip not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestLensNames_Sorted(t *testing.T) {
	doc, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatal(err)
	}
	names := doc.LensNames()
	want := []string{"Equilibrium", "Moral Critique"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("LensNames = %v, want %v", names, want)
	}
}

func TestDefault_MatchesGenealogyDocument(t *testing.T) {
	doc := Default()

	if len(doc.CoreAttitudes) != 12 {
		t.Errorf("CoreAttitudes length = %d, want 12", len(doc.CoreAttitudes))
	}
	if doc.CoreAttitudes[0] != "Critique of traditional moral values" {
		t.Errorf("CoreAttitudes[0] = %q", doc.CoreAttitudes[0])
	}

	if len(doc.ToneFeatures) != 10 {
		t.Errorf("ToneFeatures length = %d, want 10", len(doc.ToneFeatures))
	}
	if last := doc.ToneFeatures[len(doc.ToneFeatures)-1]; last != "Skeptical and questioning" {
		t.Errorf("last tone feature = %q", last)
	}

	if len(doc.BehaviourLenses) != 10 {
		t.Errorf("BehaviourLenses size = %d, want 10", len(doc.BehaviourLenses))
	}
	if desc := doc.BehaviourLenses["Equilibrium"]; desc != "The balance of power and justice within a community." {
		t.Errorf("Equilibrium lens = %q", desc)
	}
}

func TestDefault_ReturnsFreshCopy(t *testing.T) {
	a := Default()
	b := Default()
	a.CoreAttitudes[0] = "mutated"
	if b.CoreAttitudes[0] == "mutated" {
		t.Error("Default() returned aliased documents")
	}
}
