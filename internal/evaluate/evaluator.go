// Package evaluate classifies activity sentences against a philosophy
// document using an LLM, with caching and a single schema-repair retry.
package evaluate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aryanagarwal/guide/internal/llm"
	"github.com/aryanagarwal/guide/internal/philosophy"
	"github.com/aryanagarwal/guide/internal/redact"
	"github.com/aryanagarwal/guide/internal/rubric"
	"github.com/aryanagarwal/guide/internal/verdict"
)

// DocumentSource yields the current philosophy document. A *philosophy.Watcher
// satisfies this; a static document can be wrapped with StaticDocument.
type DocumentSource interface {
	Document() *philosophy.Document
}

// StaticDocument adapts a fixed document to DocumentSource.
type StaticDocument struct{ Doc *philosophy.Document }

func (s StaticDocument) Document() *philosophy.Document { return s.Doc }

// Evaluator classifies activities.
type Evaluator struct {
	Provider    llm.Provider
	Source      DocumentSource
	Cache       Cache
	Temperature float64
	MaxTokens   int
	Log         *slog.Logger
}

// Evaluate returns the verdict for one activity sentence. The sentence is
// redacted before being sent anywhere; the cache key is derived from the
// redacted form so secrets never touch disk either.
func (e *Evaluator) Evaluate(ctx context.Context, activity string) (*verdict.Verdict, error) {
	if e.Log == nil {
		e.Log = slog.Default()
	}

	activity = redact.Redact(activity)
	key := CacheKey(activity)

	if v, err := e.Cache.Get(key); err == nil {
		e.Log.Debug("cache hit", slog.String("activity", activity))
		return v, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		e.Log.Warn("cache read failed", slog.String("error", err.Error()))
	}

	req := &llm.Request{
		SystemPrompt: rubric.BuildSystemPrompt(e.Source.Document()),
		UserPrompt:   rubric.BuildUserPrompt(activity),
		Temperature:  e.Temperature,
		MaxTokens:    e.MaxTokens,
	}

	v, err := e.callWithRepair(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := e.Cache.Put(key, v); err != nil {
		e.Log.Warn("cache write failed", slog.String("error", err.Error()))
	}
	return v, nil
}

// callWithRepair attempts an LLM call and retries once when the response
// fails verdict validation. The retry prompt carries only a sanitized error
// category, never the model's previous output.
func (e *Evaluator) callWithRepair(ctx context.Context, req *llm.Request) (*verdict.Verdict, error) {
	resp, err := e.Provider.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}

	v, parseErr := verdict.Parse(resp.Content)
	if parseErr == nil {
		return v, nil
	}

	e.Log.Debug("verdict validation failed, retrying", slog.String("error", parseErr.Error()))

	repairReq := *req
	repairReq.UserPrompt = req.UserPrompt + fmt.Sprintf(
		"\n\nYour previous response failed schema validation (error category: %q). Return only valid JSON matching the schema above.",
		verdict.SanitizeErrForPrompt(parseErr),
	)

	resp2, err := e.Provider.Complete(ctx, &repairReq)
	if err != nil {
		return nil, fmt.Errorf("LLM retry call failed: %w", err)
	}

	v, parseErr = verdict.Parse(resp2.Content)
	if parseErr != nil {
		return nil, fmt.Errorf("invalid model output after retry: %w", parseErr)
	}
	return v, nil
}
