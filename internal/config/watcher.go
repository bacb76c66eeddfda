package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Reload is delivered after the watched file changes.
type Reload struct {
	Config *Config
	Err    error
}

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	reloads   chan Reload
	stop      chan struct{}
	debounce  *time.Timer
	mu        sync.Mutex
	closed    bool
}

// Watch starts watching path. The parent directory is watched so editors
// that replace the file on save are still seen.
func Watch(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		path:      abs,
		reloads:   make(chan Reload, 1),
		stop:      make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Reloads returns the channel reloads are delivered on. Only the latest
// pending reload is kept.
func (w *Watcher) Reloads() <-chan Reload {
	return w.reloads
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := LoadFrom(w.path)
	r := Reload{Config: cfg, Err: err}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.reloads <- r:
	default:
		// Replace the stale pending reload.
		select {
		case <-w.reloads:
		default:
		}
		w.reloads <- r
	}
}

// Done is closed when the watcher is closed.
func (w *Watcher) Done() <-chan struct{} {
	return w.stop
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.debounce != nil {
		w.debounce.Stop()
	}
	close(w.stop)
	w.mu.Unlock()
	return w.fsWatcher.Close()
}
