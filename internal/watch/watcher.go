// Package watch monitors a work directory source tree and reports settled
// batches of file changes, driving automatic patch regeneration.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// skipDirs are directory names never watched: repo bookkeeping and build
// output churn, neither of which changes the baseline diff.
var skipDirs = map[string]bool{
	".git": true,
	".vs":  true,
	"bin":  true,
	"obj":  true,
}

// Stats tracks watcher activity.
type Stats struct {
	Events  int
	Batches int
	Errors  int
}

// SourceWatcher watches a source tree recursively and invokes a callback
// once a burst of edits has settled.
type SourceWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	sourceDir   string
	onSettled   func(paths []string)
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	logger      *zap.Logger
	stats       Stats
}

// NewSourceWatcher creates a watcher over sourceDir. onSettled receives
// the affected paths after edits stop for the debounce duration.
func NewSourceWatcher(sourceDir string, onSettled func(paths []string), logger *zap.Logger) (*SourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SourceWatcher{
		watcher:     watcher,
		sourceDir:   sourceDir,
		onSettled:   onSettled,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		logger:      logger,
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a
// goroutine until Stop is called or ctx is cancelled.
func (w *SourceWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// fsnotify does not recurse, so every subdirectory is registered
	// individually. Directories created later are added on their Create
	// events.
	err := filepath.WalkDir(w.sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipDirs[d.Name()] {
			return fs.SkipDir
		}
		return w.watcher.Add(path)
	})
	if err != nil {
		return err
	}

	w.logger.Info("watching source tree", zap.String("dir", w.sourceDir))
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *SourceWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("failed to close watcher", zap.Error(err))
	}
}

// Stats returns a snapshot of watcher activity.
func (w *SourceWatcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *SourceWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.flushSettled()
		}
	}
}

func (w *SourceWatcher) handleEvent(event fsnotify.Event) {
	if w.ignored(event.Name) {
		return
	}

	// Chmod-only events never change content.
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	// A freshly created directory must be watched too.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory",
					zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}

	w.logger.Debug("source change", zap.String("path", event.Name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.stats.Events++
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

// ignored reports whether path lives under a skipped directory.
func (w *SourceWatcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.sourceDir, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if skipDirs[part] {
			return true
		}
	}
	return false
}

// flushSettled invokes the callback once for every batch of paths whose
// last event is older than the debounce window.
func (w *SourceWatcher) flushSettled() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	if len(settled) > 0 {
		w.stats.Batches++
	}
	w.mu.Unlock()

	if len(settled) == 0 {
		return
	}
	sort.Strings(settled)
	w.onSettled(settled)
}
