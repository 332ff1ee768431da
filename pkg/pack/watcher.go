package pack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned by Watch after the watcher has been stopped.
var ErrWatcherClosed = errors.New("watcher closed")

// WatcherConfig contains configuration for the pack watcher.
type WatcherConfig struct {
	// Path is the pack file or directory of packs to watch
	Path string

	// DebounceInterval is the quiet period after the last change before
	// the callback runs (default: 100ms)
	DebounceInterval time.Duration
}

// Watcher watches a hunt pack and invokes a callback when it changes.
//
// A single file is watched through its parent directory so that editors
// which save by rename keep triggering events.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   WatcherConfig
	debounce *Debouncer

	// target is the cleaned pack file path, empty when watching a directory
	target string

	mu      sync.Mutex
	running bool
	closed  bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	readyCh chan struct{}
	stop    sync.Once
}

// NewWatcher creates a new pack watcher.
func NewWatcher(cfg WatcherConfig, logger *slog.Logger) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watch path is required")
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  watcher,
		logger:   logger,
		config:   cfg,
		debounce: NewDebouncer(cfg.DebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		readyCh:  make(chan struct{}),
	}, nil
}

// Ready is closed once Watch has registered the watched path.
func (w *Watcher) Ready() <-chan struct{} {
	return w.readyCh
}

// Watch blocks until ctx is cancelled or Stop is called, invoking onChange
// after each debounced burst of changes to the pack. Errors returned by
// onChange are logged and watching continues.
func (w *Watcher) Watch(ctx context.Context, onChange func() error) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		_ = w.watcher.Close()

		w.mu.Lock()
		w.running = false
		w.closed = true
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.addPath(w.config.Path); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}
	close(w.readyCh)

	w.logger.Info("Pack watcher started",
		"path", w.config.Path,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Pack watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("Pack watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("Pack file event detected",
				"path", event.Name,
				"op", event.Op.String(),
			)

			w.debounce.Trigger(func() {
				w.logger.Info("Reloading hunt pack", "path", event.Name)
				if err := onChange(); err != nil {
					w.logger.Error("Hunt pack reload failed", "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("Pack watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and waits for Watch to return. It is safe to call
// more than once and before Watch.
func (w *Watcher) Stop() error {
	w.stop.Do(func() { close(w.stopCh) })

	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		<-w.doneCh
		return nil
	}
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (w *Watcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return w.watcher.Add(path)
	}

	w.target = filepath.Clean(path)
	return w.watcher.Add(filepath.Dir(w.target))
}

// shouldProcessEvent determines if an event should trigger a reload.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}

	name := filepath.Clean(event.Name)
	if w.target != "" {
		return name == w.target
	}

	base := filepath.Base(name)
	return !strings.HasPrefix(base, ".") && hasPackExtension(base)
}

// Debouncer collects rapid events and runs the latest callback only after a
// quiet period.
type Debouncer struct {
	interval time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopped  bool

	// pending counts scheduled or running callbacks
	pending sync.WaitGroup
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules callback after the debounce interval, replacing any
// callback that has not fired yet.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.callback = callback
	if d.timer != nil && d.timer.Stop() {
		d.pending.Done()
	}

	d.pending.Add(1)
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	defer d.pending.Done()

	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	cb := d.callback
	d.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Stop cancels any pending callback and waits for a running one to finish.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil && d.timer.Stop() {
		d.pending.Done()
	}
	d.timer = nil
	d.callback = nil
	d.mu.Unlock()

	d.pending.Wait()
}
