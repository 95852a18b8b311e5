// Package watchconfig watches the antiprobe policy/config file for
// changes and signals the caller to reload it, for cmd/antiprobe's
// --watch mode. Watches one debounced path, since there is exactly
// one file this package ever needs to track.
package watchconfig

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a single config file and emits a reload signal
// once the file has been stable (no further writes) for the debounce
// interval, so a half-written save doesn't trigger a reload against
// a partial file.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration

	mu      sync.Mutex
	lastMod time.Time
	pending bool

	reload chan struct{}
	errors chan error
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a Watcher for path, watching its containing directory
// (fsnotify does not reliably track a single file across editors that
// write-then-rename) with the given debounce interval.
func New(path string, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		path:      absPath,
		debounce:  debounce,
		reload:    make(chan struct{}, 1),
		errors:    make(chan error, 4),
		done:      make(chan struct{}),
	}, nil
}

// Reloads returns the channel that receives a value once per
// debounced, stabilized change to the watched file.
func (w *Watcher) Reloads() <-chan struct{} {
	return w.reload
}

// Errors returns the channel of fsnotify-level errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Start begins watching in the background.
func (w *Watcher) Start() {
	w.wg.Add(2)
	go w.eventLoop()
	go w.debounceLoop()
}

// Stop shuts the watcher down and releases the underlying fsnotify
// handle.
func (w *Watcher) Stop() error {
	close(w.done)
	w.wg.Wait()
	close(w.reload)
	close(w.errors)
	return w.fsWatcher.Close()
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			w.mu.Lock()
			w.lastMod = time.Now()
			w.pending = true
			w.mu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case now := <-ticker.C:
			w.maybeSignalReload(now)
		}
	}
}

func (w *Watcher) maybeSignalReload(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.pending || now.Sub(w.lastMod) < w.debounce {
		return
	}
	if _, err := os.Stat(w.path); err != nil {
		w.pending = false
		return
	}

	w.pending = false
	select {
	case w.reload <- struct{}{}:
	default:
	}
}
