// Package watch reports changes to a single file.
//
// The file's parent directory is watched rather than the file itself, so
// saves that replace the file through a rename (atomic writers, most
// editors) keep being observed. When fsnotify is unavailable the watcher
// stats the file on an interval instead.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is the stat interval in polling mode.
const DefaultPollInterval = 2 * time.Second

// Watcher monitors one file for writes and creations.
type Watcher struct {
	// path is the cleaned path of the watched file.
	path string
	log  *slog.Logger
	// events is buffered to 1 so back-to-back changes coalesce.
	events chan struct{}
	// done is closed by [Watcher.Close] to stop goroutines.
	done chan struct{}

	mu  sync.Mutex
	fsw *fsnotify.Watcher // nil when polling

	once         sync.Once
	polling      atomic.Bool
	pollInterval time.Duration
}

// New starts watching path. The file need not exist yet, but its directory
// must for fsnotify to be used; otherwise the watcher polls.
func New(path string, log *slog.Logger) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("watch: empty path")
	}
	if log == nil {
		log = slog.Default()
	}
	w := &Watcher{
		path:         filepath.Clean(path),
		log:          log,
		events:       make(chan struct{}, 1),
		done:         make(chan struct{}),
		pollInterval: DefaultPollInterval,
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		log.Info("fsnotify unavailable, falling back to polling", "error", err)
		w.startPolling()
		return w, nil
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		log.Info("cannot watch directory, falling back to polling", "path", filepath.Dir(w.path), "error", err)
		fsw.Close()
		w.startPolling()
		return w, nil
	}

	w.fsw = fsw
	go w.watch(fsw)
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Polling reports whether the watcher is using polling instead of fsnotify.
func (w *Watcher) Polling() bool { return w.polling.Load() }

// Events receives a signal after the file changes. Several changes between
// receives collapse into one signal.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Close stops the watcher and releases resources. It is safe to call more
// than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.fsw != nil {
			if closeErr := w.fsw.Close(); closeErr != nil {
				err = fmt.Errorf("closing fsnotify watcher: %w", closeErr)
			}
			w.fsw = nil
		}
	})
	return err
}

// relevant reports whether an fsnotify event concerns the watched file.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	return filepath.Clean(ev.Name) == w.path
}

// watch forwards relevant fsnotify events. On an fsnotify error it closes
// the native watcher and continues in polling mode.
func (w *Watcher) watch(fsw *fsnotify.Watcher) {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.notify()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Info("fsnotify error, switching to polling", "error", err)
			w.mu.Lock()
			if w.fsw != nil {
				w.fsw.Close()
				w.fsw = nil
			}
			w.mu.Unlock()
			w.startPolling()
			return
		}
	}
}

func (w *Watcher) startPolling() {
	w.polling.Store(true)
	go w.poll()
}

// fileState is what polling compares between ticks.
type fileState struct {
	exists bool
	mod    time.Time
	size   int64
}

func (w *Watcher) stat() fileState {
	info, err := os.Stat(w.path)
	if err != nil {
		return fileState{}
	}
	return fileState{exists: true, mod: info.ModTime(), size: info.Size()}
}

// poll stats the file every pollInterval and notifies when it appears or
// its modification time or size changes. Removal alone is not reported.
func (w *Watcher) poll() {
	last := w.stat()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			cur := w.stat()
			if cur.exists && (!last.exists || !cur.mod.Equal(last.mod) || cur.size != last.size) {
				w.notify()
			}
			last = cur
		}
	}
}

// notify sends a signal unless one is already pending.
func (w *Watcher) notify() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}
