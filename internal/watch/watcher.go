// Package watch re-renders a chart whenever its data file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"shiftgantt/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// ErrStopped is returned when starting a watcher that has been stopped.
var ErrStopped = errors.New("watcher already stopped")

// RebuildFunc regenerates output from the data file.
type RebuildFunc func(ctx context.Context) error

// Watcher watches one data file and calls its RebuildFunc after each burst
// of changes. The file's directory is watched rather than the file itself so
// that editors which save by renaming a temp file are still seen.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	path        string
	dir         string
	rebuild     RebuildFunc
	debounceDur time.Duration
	pending     time.Time // zero when nothing is waiting
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	stopped     bool

	stats Stats
}

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Rebuilds      int
	Failures      int
	WatchErrors   int
	LastEventTime time.Time
	LastEventType string
	LastError     string
}

// New creates a Watcher for path. A debounce of zero uses DefaultDebounce.
func New(path string, debounce time.Duration, rebuild RebuildFunc) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:     fw,
		path:        abs,
		dir:         filepath.Dir(abs),
		rebuild:     rebuild,
		debounceDur: debounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. It does not block: once it returns, changes to the
// file are recorded.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrStopped
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logging.Watch("watching %s", w.path)

	go w.run(ctx)
	return nil
}

// Run watches until ctx is cancelled, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	<-w.doneCh
	w.Stop()
	return nil
}

// Done is closed when the event loop exits, after ctx is cancelled or Stop
// is called.
func (w *Watcher) Done() <-chan struct{} { return w.doneCh }

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	wasRunning := w.running
	w.running = false
	w.stopped = true
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	w.close()
	logging.Watch("watcher stopped")
}

func (w *Watcher) close() {
	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryWatch).Errorf("error closing watcher: %v", err)
	}
}

// run is the main event loop.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := min(w.debounceDur/3, 100*time.Millisecond)
	debounceTicker := time.NewTicker(max(tick, time.Millisecond))
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.WatchDebug("context cancelled")
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
			logging.Get(logging.CategoryWatch).Errorf("watch error: %v", err)
			w.mu.Lock()
			w.stats.WatchErrors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			w.processPending(ctx)
		}
	}
}

// handleEvent records a change to the data file. Events for other files in
// the directory are ignored.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	var eventType string
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = "create"
	case event.Op&fsnotify.Write != 0:
		eventType = "modify"
	case event.Op&fsnotify.Rename != 0:
		eventType = "rename"
	default:
		// remove and chmod: nothing to render until the file comes back
		return
	}

	logging.WatchDebug("%s event for %s", eventType, event.Name)

	w.mu.Lock()
	now := time.Now()
	w.stats.Events++
	w.stats.LastEventTime = now
	w.stats.LastEventType = eventType
	w.pending = now
	w.mu.Unlock()
}

// processPending rebuilds once the last event is older than the debounce window.
func (w *Watcher) processPending(ctx context.Context) {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounceDur {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	logging.Watch("change detected, rebuilding %s", filepath.Base(w.path))
	err := w.rebuild(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.stats.Failures++
		w.stats.LastError = err.Error()
		logging.Get(logging.CategoryWatch).Warnf("rebuild failed, waiting for the next change: %v", err)
		return
	}
	w.stats.Rebuilds++
	w.stats.LastError = ""
}

// GetStats returns the current watcher statistics.
func (w *Watcher) GetStats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// IsWatching returns true if the watcher is currently running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string { return w.path }
