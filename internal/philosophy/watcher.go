package philosophy

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay is how long to wait for further writes before reloading.
// Editors often emit several write events for one save.
const debounceDelay = 500 * time.Millisecond

// Watcher reloads a philosophy document when its file changes. A failed
// reload keeps the last good document, so a half-saved file never corrupts
// the running evaluator.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu  sync.RWMutex
	doc *Document
}

// NewWatcher loads the document at path and begins watching its directory.
// Watching the directory instead of the file survives rename-based saves.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := Load(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		path:    path,
		watcher: fsw,
		logger:  logger,
		doc:     doc,
	}, nil
}

// Document returns the current document.
func (w *Watcher) Document() *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.doc
}

// Run processes file events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				timer.Reset(debounceDelay)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("philosophy watch error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) reload() {
	doc, err := Load(w.path)
	if err != nil {
		w.logger.Warn("philosophy reload failed, keeping previous document",
			slog.String("path", w.path),
			slog.String("error", err.Error()))
		return
	}
	w.mu.Lock()
	w.doc = doc
	w.mu.Unlock()
	w.logger.Info("philosophy document reloaded",
		slog.String("path", w.path),
		slog.Int("attitudes", len(doc.CoreAttitudes)),
		slog.Int("lenses", len(doc.BehaviourLenses)))
}
