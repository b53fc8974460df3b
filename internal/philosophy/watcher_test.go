package philosophy

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "philosophy.json")
	if err := os.WriteFile(path, []byte(validDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	updated := `{
  "core_attitudes": ["Only one attitude"],
  "tone_features": ["Polemical"],
  "behaviour_lenses": {"Affirmation": "Saying yes to life."}
}`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		if len(w.Document().CoreAttitudes) == 1 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("document was not reloaded within 5s")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestWatcher_KeepsLastGoodDocumentOnBadReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "philosophy.json")
	if err := os.WriteFile(path, []byte(validDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	if err := os.WriteFile(path, []byte(`{"broken`), 0o644); err != nil {
		t.Fatal(err)
	}

	// Give the debounce window time to elapse and the reload to fail.
	time.Sleep(2 * debounceDelay)

	doc := w.Document()
	if len(doc.CoreAttitudes) != 2 {
		t.Errorf("document changed after failed reload: %+v", doc)
	}
}

func TestNewWatcher_InvalidDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "philosophy.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewWatcher(path, nil); err == nil {
		t.Error("expected error for invalid initial document")
	}
}
