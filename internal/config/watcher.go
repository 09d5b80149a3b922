package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/max-longrun/bison-mcp/pkg/logging"
)

// ReloadFunc receives every successfully parsed new configuration.
type ReloadFunc func(Config)

// Watcher reloads a configuration file when it changes on disk. The parent
// directory is watched so that editors which replace the file atomically
// are handled too.
type Watcher struct {
	mu sync.Mutex

	path             string
	defaults         Defaults
	debounceInterval time.Duration
	onReload         ReloadFunc

	watcher *fsnotify.Watcher
	timer   *time.Timer
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for path. A zero debounce means 300ms.
func NewWatcher(path string, defaults Defaults, debounce time.Duration, onReload ReloadFunc) *Watcher {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{
		path:             filepath.Clean(path),
		defaults:         defaults,
		debounceInterval: debounce,
		onReload:         onReload,
	}
}

// Start begins watching. It returns immediately; events are processed until
// ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true

	go w.processEvents(ctx, watcher, w.stopCh, w.doneCh)

	logging.Info("ConfigWatcher", "Watching %s for account changes", w.path)
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	done := w.doneCh
	watcher := w.watcher
	w.mu.Unlock()

	<-done
	_ = watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context, watcher *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("ConfigWatcher", err, "Filesystem watcher error")
		}
	}
}

// schedule collapses bursts of events into a single reload.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceInterval, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		return
	}

	cfg, err := LoadFile(w.path, w.defaults)
	if err != nil {
		logging.Warn("ConfigWatcher", "Keeping previous accounts, reload failed: %v", err)
		return
	}
	logging.Info("ConfigWatcher", "Reloaded %d account(s) from %s", len(cfg.Accounts), w.path)
	w.onReload(cfg)
}
