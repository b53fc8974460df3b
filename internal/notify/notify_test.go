package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/aryanagarwal/guide/internal/streak"
)

var testNotice = streak.Notice{
	Kind:    streak.NoticeSustainedGood,
	Title:   "Sustained strength",
	Message: "3 life-affirming activities in a row.",
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	n := LogNotifier{Log: log}
	if err := n.Notify(context.Background(), testNotice); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "sustained_good") || !strings.Contains(out, "Sustained strength") {
		t.Errorf("log output missing notice fields: %s", out)
	}
}

func TestCommandNotifier(t *testing.T) {
	n := CommandNotifier{Command: "true"}
	if err := n.Notify(context.Background(), testNotice); err != nil {
		t.Errorf("expected success, got %v", err)
	}
}

func TestCommandNotifier_Failure(t *testing.T) {
	n := CommandNotifier{Command: "false"}
	if err := n.Notify(context.Background(), testNotice); err == nil {
		t.Error("expected error from failing command")
	}
}

type recordingNotifier struct {
	got []streak.Notice
	err error
}

func (r *recordingNotifier) Notify(_ context.Context, n streak.Notice) error {
	r.got = append(r.got, n)
	return r.err
}

func TestFanout(t *testing.T) {
	a := &recordingNotifier{}
	b := &recordingNotifier{err: errors.New("boom")}
	c := &recordingNotifier{}
	f := Fanout{a, b, c}
	err := f.Notify(context.Background(), testNotice)
	if err == nil || err.Error() != "boom" {
		t.Errorf("expected first error, got %v", err)
	}
	for i, r := range []*recordingNotifier{a, b, c} {
		if len(r.got) != 1 {
			t.Errorf("notifier %d: expected delivery despite earlier error", i)
		}
	}
}
