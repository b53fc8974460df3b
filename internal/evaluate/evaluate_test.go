package evaluate

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/aryanagarwal/guide/internal/activity"
	"github.com/aryanagarwal/guide/internal/llm"
	"github.com/aryanagarwal/guide/internal/philosophy"
	"github.com/aryanagarwal/guide/internal/verdict"
)

// scriptedProvider returns canned responses in sequence, repeating the last.
type scriptedProvider struct {
	responses []string
	calls     int
}

func (p *scriptedProvider) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	i := p.calls
	if i >= len(p.responses) {
		i = len(p.responses) - 1
	}
	p.calls++
	return &llm.Response{Content: p.responses[i], Model: "test:model"}, nil
}

func newTestEvaluator(t *testing.T, provider llm.Provider, cache Cache) *Evaluator {
	t.Helper()
	if cache == nil {
		var err error
		cache, err = NewFileCache(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
	}
	return &Evaluator{
		Provider: provider,
		Source:   StaticDocument{Doc: philosophy.Default()},
		Cache:    cache,
	}
}

func TestEvaluate_ParsesVerdict(t *testing.T) {
	p := &scriptedProvider{responses: []string{`{"category":"deep_work","score":4,"reason":"Focused creation"}`}}
	e := newTestEvaluator(t, p, nil)

	v, err := e.Evaluate(context.Background(), "Used LibreOffice Writer")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Category != "deep_work" || v.Score != 4 {
		t.Errorf("verdict = %+v", v)
	}
}

func TestEvaluate_CachesResult(t *testing.T) {
	p := &scriptedProvider{responses: []string{`{"category":"vice","score":-5,"reason":"Herd scrolling"}`}}
	e := newTestEvaluator(t, p, nil)

	for i := 0; i < 3; i++ {
		if _, err := e.Evaluate(context.Background(), "Visited \"YouTube\" in browser"); err != nil {
			t.Fatal(err)
		}
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1 (cache)", p.calls)
	}
}

func TestEvaluate_RepairRetry(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{"category":"nonsense","score":0,"reason":"x"}`,
		`{"category":"admin","score":0,"reason":"Routine upkeep"}`,
	}}
	e := newTestEvaluator(t, p, nil)

	v, err := e.Evaluate(context.Background(), "Switched to Mail")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.Category != "admin" {
		t.Errorf("Category = %q", v.Category)
	}
	if p.calls != 2 {
		t.Errorf("provider called %d times, want 2", p.calls)
	}
}

func TestEvaluate_FailsAfterRetry(t *testing.T) {
	p := &scriptedProvider{responses: []string{`garbage`, `more garbage`}}
	e := newTestEvaluator(t, p, nil)

	if _, err := e.Evaluate(context.Background(), "Switched to Mail"); err == nil {
		t.Fatal("expected error after failed retry")
	}
}

func TestEvaluate_RedactsBeforePrompting(t *testing.T) {
	var sawPrompt string
	p := promptCapture{content: `{"category":"admin","score":0,"reason":"ok"}`, saw: &sawPrompt}
	e := newTestEvaluator(t, p, nil)

	_, err := e.Evaluate(context.Background(), "Visited page https://x.test/?api_key=abcdef123456 in browser")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(sawPrompt, "abcdef123456") {
		t.Error("secret leaked into prompt")
	}
	if !strings.Contains(sawPrompt, "[REDACTED]") {
		t.Errorf("prompt not redacted: %q", sawPrompt)
	}
}

type promptCapture struct {
	content string
	saw     *string
}

func (p promptCapture) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	*p.saw = req.UserPrompt
	return &llm.Response{Content: p.content, Model: "test:model"}, nil
}

func TestFileCache_MissThenHit(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	key := CacheKey("Used Writer")
	if _, err := c.Get(key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get before Put: err = %v, want ErrCacheMiss", err)
	}

	want := &verdict.Verdict{Category: "deep_work", Score: 3, Reason: "Writing"}
	if err := c.Put(key, want); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get after Put: %v", err)
	}
	if *got != *want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRedisCache_MissThenHit(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	c := NewRedisCache(client, time.Hour)
	defer c.Close()

	key := CacheKey("Used Writer")
	if _, err := c.Get(key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get before Put: err = %v, want ErrCacheMiss", err)
	}

	want := &verdict.Verdict{Category: "learning", Score: 2, Reason: "Reading docs"}
	if err := c.Put(key, want); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get after Put: %v", err)
	}
	if *got != *want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	c := NewRedisCache(client, time.Minute)
	defer c.Close()

	key := CacheKey("Used Writer")
	if err := c.Put(key, &verdict.Verdict{Category: "admin", Score: 0, Reason: "x"}); err != nil {
		t.Fatal(err)
	}

	srv.FastForward(2 * time.Minute)

	if _, err := c.Get(key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected miss after TTL expiry, got err = %v", err)
	}
}

func TestBatch_And_WriteScoredCSV(t *testing.T) {
	p := &scriptedProvider{responses: []string{`{"category":"deep_work","score":4,"reason":"Focused"}`}}
	e := newTestEvaluator(t, p, nil)

	ts := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	events := []activity.Event{
		{Timestamp: ts, Kind: activity.KindAppUsage, Details: "Writer|900"},
		{Timestamp: ts.Add(time.Minute), Kind: activity.KindAppSwitch, Details: "Writer"},
	}
	scored, err := e.Batch(context.Background(), events)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("scored %d events, want 2", len(scored))
	}

	var buf bytes.Buffer
	if err := WriteScoredCSV(&buf, scored); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "timestamp,activity,category,score,reason\n") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "Used Writer,deep_work,4,Focused") {
		t.Errorf("missing scored row: %q", out)
	}
}
