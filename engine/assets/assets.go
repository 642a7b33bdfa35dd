package assets

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/rtx/engine/core"
)

var ErrWatcherClosed = errors.New("watcher already closed")

/**
 * @brief Watches one file and signals when it should be reloaded.
 *
 * The directory holding the file is watched rather than the file itself, so
 * that editors replacing the file on save keep triggering reloads. Bursts of
 * events collapse into a single pending signal.
 */
type Watcher struct {
	path string

	mutex      sync.RWMutex
	lastChange time.Time

	done      chan struct{}
	closeOnce sync.Once
	fsnotify  *fsnotify.Watcher
	reload    chan struct{}
	errors    chan error
}

func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		fsnotify: fsWatch,
		reload:   make(chan struct{}, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
	go w.start()
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Reload receives once per burst of changes to the watched file.
func (w *Watcher) Reload() <-chan struct{} {
	return w.reload
}

// Errors receives watcher failures. Only the latest unread one is kept.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// LastChange returns when the watched file last changed.
func (w *Watcher) LastChange() time.Time {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.lastChange
}

func (w *Watcher) Close() error {
	err := ErrWatcherClosed
	w.closeOnce.Do(func() {
		close(w.done)
		err = nil
	})
	return err
}

func (w *Watcher) start() {
	defer func() {
		w.fsnotify.Close()
		close(w.reload)
		close(w.errors)
	}()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			// handle create or modify events of the watched file only
			if filepath.Clean(e.Name) != w.path || e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.handleFileEvent()

		case e, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())
			select {
			case w.errors <- e:
			default:
			}

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleFileEvent() {
	w.mutex.Lock()
	w.lastChange = time.Now()
	w.mutex.Unlock()

	select {
	case w.reload <- struct{}{}:
	default:
	}
}
