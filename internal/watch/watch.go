// Package watch reports file system changes under a directory tree.
//
// It wraps fsnotify, which watches single directories, and keeps adding
// newly created subdirectories so a whole scene tree is covered.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/pencils57/scenenav/internal/registry"
)

// Op is the kind of change.
type Op int

const (
	// OpCreate indicates a new file.
	OpCreate Op = iota
	// OpModify indicates a write to an existing file.
	OpModify
	// OpDelete indicates a removed or renamed-away file.
	OpDelete
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpModify:
		return "modify"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Event is a change to a file accepted by the watcher's match function.
type Event struct {
	Path string
	Op   Op
}

// Watcher delivers Events for files under a root.
type Watcher struct {
	watcher   *fsnotify.Watcher
	match     func(path string) bool
	events    chan Event
	errors    chan error
	done      chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	running   bool
	recursive bool
}

// New creates a Watcher that only reports files for which match returns
// true. A nil match accepts everything. Call Start to begin watching.
func New(match func(path string) bool) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if match == nil {
		match = func(string) bool { return true }
	}

	return &Watcher{
		watcher: fw,
		match:   match,
		events:  make(chan Event, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Start watches root. With recursive set every subdirectory is watched
// too, including ones created later.
func (w *Watcher) Start(root string, recursive bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	w.recursive = recursive
	if recursive {
		if err := w.addTree(root); err != nil {
			return err
		}
	} else if err := w.watcher.Add(root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop stops watching and closes the Events and Errors channels. It blocks
// until the event loop has exited.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	w.wg.Wait()

	close(w.events)
	close(w.errors)

	return nil
}

// Events returns the channel of accepted changes.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// IsRunning returns true between Start and Stop.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if w.recursive && event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.sendError(err)
					}
					continue
				}
			}

			if ev, ok := w.convertEvent(event); ok {
				select {
				case w.events <- ev:
				case <-w.done:
					return
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	case <-w.done:
	}
}

func (w *Watcher) convertEvent(event fsnotify.Event) (Event, bool) {
	if !w.match(event.Name) {
		return Event{}, false
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// A rename reports the old name; the new name arrives as a create.
		op = OpDelete
	default:
		return Event{}, false
	}

	return Event{Path: event.Name, Op: op}, true
}

// Affected returns the bookmarks whose path is the file named by path.
func Affected(bookmarks []registry.Bookmark, path string) []registry.Bookmark {
	target := filepath.Clean(path)
	var out []registry.Bookmark
	for _, b := range bookmarks {
		if filepath.Clean(b.Path) == target {
			out = append(out, b)
		}
	}
	return out
}
