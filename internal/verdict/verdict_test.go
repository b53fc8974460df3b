package verdict

import (
	"strings"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	v, err := Parse(`{"category": "deep_work", "score": 4, "reason": "Sustained creative effort"}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.Category != "deep_work" || v.Score != 4 {
		t.Errorf("verdict = %+v", v)
	}
}

func TestParse_StripsFences(t *testing.T) {
	raw := "```json\n{\"category\": \"vice\", \"score\": -5, \"reason\": \"Reactive herd scrolling\"}\n```"
	v, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v.Score != -5 {
		t.Errorf("Score = %d, want -5", v.Score)
	}
}

func TestParse_UnknownCategory(t *testing.T) {
	_, err := Parse(`{"category": "sloth", "score": 0, "reason": "x"}`)
	if err == nil || !strings.Contains(err.Error(), "unknown category") {
		t.Errorf("err = %v, want unknown category", err)
	}
}

func TestParse_ScoreOutOfRange(t *testing.T) {
	for _, raw := range []string{
		`{"category": "vice", "score": 6, "reason": "x"}`,
		`{"category": "vice", "score": -6, "reason": "x"}`,
	} {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%s) succeeded, want range error", raw)
		}
	}
}

func TestParse_MissingReason(t *testing.T) {
	_, err := Parse(`{"category": "admin", "score": 0}`)
	if err == nil || !strings.Contains(err.Error(), "reason is required") {
		t.Errorf("err = %v, want reason is required", err)
	}
}

func TestParse_BrokenJSON(t *testing.T) {
	_, err := Parse(`{"category": `)
	if err == nil {
		t.Fatal("expected error for broken JSON")
	}
	if SanitizeErrForPrompt(err) != "JSON syntax error" {
		t.Errorf("SanitizeErrForPrompt = %q", SanitizeErrForPrompt(err))
	}
}

func TestSanitizeErrForPrompt_Categories(t *testing.T) {
	_, err := Parse(`{"category": "sloth", "score": 0, "reason": "x"}`)
	if got := SanitizeErrForPrompt(err); !strings.Contains(got, "invalid enum value") {
		t.Errorf("SanitizeErrForPrompt = %q", got)
	}
}
