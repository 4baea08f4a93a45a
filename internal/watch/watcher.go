// Package watch reports image files that appear in or disappear from the
// source folder while a session is running. It only reports: the session's
// image set is never changed by what it sees.
package watch

import (
	"fmt"
	"os"
	"sync"
	"time"

	"picsort/internal/imageset"
	"picsort/internal/log"

	"github.com/fsnotify/fsnotify"
)

// Change is an image file event detected by the watcher
type Change struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// Added reports whether the change brought a file into the folder.
func (c Change) Added() bool {
	return c.Op.Has(fsnotify.Create)
}

// Watcher monitors a source folder for image changes using fsnotify
type Watcher struct {
	matcher *imageset.Matcher

	// Channel to deliver changes, closed when the event loop exits
	changes chan Change

	stopChan chan struct{}
	done     chan struct{}

	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	dir     string
	running bool
	ignored map[string]time.Time
}

// ignoreWindow is how long a path the session itself touched is ignored.
const ignoreWindow = 2 * time.Second

// New creates a watcher that reports files accepted by m.
func New(m *imageset.Matcher) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		matcher:   m,
		changes:   make(chan Change, 32),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
		fsWatcher: fsWatcher,
		ignored:   make(map[string]time.Time),
	}, nil
}

// Watch sets the folder to monitor, replacing any previous one.
func (w *Watcher) Watch(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.dir == dir {
		return nil
	}
	if w.dir != "" {
		if err := w.fsWatcher.Remove(w.dir); err != nil {
			log.LogWithFields(log.F("directory", w.dir), log.F("error", err)).Warn("Failed to stop watching directory")
		}
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}
	w.dir = dir
	log.LogWithFields(log.F("directory", dir)).Info("Watching directory")
	return nil
}

// Ignore suppresses events for path for a short while. The session calls it
// for files it moves itself so they are not reported as external changes.
func (w *Watcher) Ignore(path string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.ignored[path] = time.Now().Add(ignoreWindow)
}

func (w *Watcher) isIgnored(path string, now time.Time) bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	until, ok := w.ignored[path]
	if !ok {
		return false
	}
	if now.After(until) {
		delete(w.ignored, path)
		return false
	}
	return true
}

// Changes returns the channel that delivers changes. It is closed by Stop.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Directory returns the folder being watched.
func (w *Watcher) Directory() string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.dir
}

// Start begins the event loop.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mutex.Unlock()

	go w.loop()

	log.Info("Watcher started.")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.changes)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if !w.matcher.Match(event.Name) {
				continue
			}
			now := time.Now()
			if w.isIgnored(event.Name, now) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				// Directories named like images are not images
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					continue
				}
			}

			change := Change{Path: event.Name, Op: event.Op, Timestamp: now}

			// Send non-blockingly so a slow UI never stalls the loop
			select {
			case w.changes <- change:
			default:
				log.LogWithFields(log.F("file", event.Name)).Warn("Change channel is full, dropped event")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// Stop halts the watcher and closes the change channel.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		w.fsWatcher.Close()
		return
	}
	w.running = false
	w.mutex.Unlock()

	close(w.stopChan)
	<-w.done

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	log.Info("Watcher stopped.")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
