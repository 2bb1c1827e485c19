package simulator

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/huanfeng/storesim/pkg/utils"
)

const (
	defaultDebounce     = 100 * time.Millisecond
	defaultPollInterval = 5 * time.Second
)

// Watcher reloads a simulator whenever its configuration document changes on disk
type Watcher struct {
	sim      *Simulator
	path     string
	logger   utils.Logger
	debounce time.Duration
	poll     time.Duration

	watcher     *fsnotify.Watcher
	stopChan    chan struct{}
	stopOnce    sync.Once
	lastModTime time.Time

	mu       sync.Mutex
	timer    *time.Timer
	onReload func(error)
}

// WatcherOption configures a Watcher
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits after the last change before reloading
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithPollInterval sets the interval used when file notifications are unavailable
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.poll = d
		}
	}
}

// NewWatcher creates a watcher for the simulator document at path
func NewWatcher(sim *Simulator, path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		sim:      sim,
		path:     abs,
		logger:   sim.logger.WithField("file", abs),
		debounce: defaultDebounce,
		poll:     defaultPollInterval,
		watcher:  fw,
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if stat, err := os.Stat(abs); err == nil {
		w.lastModTime = stat.ModTime()
	}
	return w, nil
}

// SetReloadCallback sets a function called after every reload attempt with
// its result
func (w *Watcher) SetReloadCallback(callback func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = callback
}

// Start watches the document's directory so editors that replace the file
// by rename are still observed
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Warn("Failed to watch %s, falling back to polling: %v", dir, err)
		go w.pollForChanges()
		return nil
	}

	go w.watchForChanges()
	w.logger.Info("Watching simulator config for changes")
	return nil
}

// Stop ends watching. Pending reloads are dropped.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
}

func (w *Watcher) watchForChanges() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.logger.Debug("Detected change: %s", event.Op)
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Config watcher error: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) pollForChanges() {
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stat, err := os.Stat(w.path)
			if err != nil || !stat.ModTime().After(w.lastModTime) {
				continue
			}
			w.lastModTime = stat.ModTime()
			w.logger.Debug("Detected change via polling")
			w.reload()

		case <-w.stopChan:
			return
		}
	}
}

// schedule collapses a burst of events into one reload
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.stopChan:
		return
	default:
	}

	err := w.sim.ReloadFile(w.path)
	if err != nil {
		w.logger.Warn("Keeping previous simulator state: %v", err)
	}

	w.mu.Lock()
	callback := w.onReload
	w.mu.Unlock()
	if callback != nil {
		callback(err)
	}
}
