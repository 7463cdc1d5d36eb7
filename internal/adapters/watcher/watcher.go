// Package watcher implements recursive file system watching with fsnotify.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skippedDirectories are never watched.
var skippedDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	events    chan ports.WatchEvent
	ignored   map[string]bool

	mu  sync.Mutex
	err error
}

// NewWatcher creates a watcher. Directories in ignore, given as absolute
// paths, are not descended into.
func NewWatcher(ignore ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}

	ignored := make(map[string]bool, len(ignore))
	for _, dir := range ignore {
		ignored[filepath.Clean(dir)] = true
	}

	return &Watcher{
		fsWatcher: fsw,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		ignored:   ignored,
	}, nil
}

// Start begins watching root recursively. Events flow until ctx is
// cancelled, Stop is called or the backend fails. A failed Start releases
// the backend.
func (w *Watcher) Start(ctx context.Context, root string) error {
	for dir := range w.directories(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			_ = w.fsWatcher.Close()
			return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "dir", dir)
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// Err returns the backend failure that ended the event stream, if any.
func (w *Watcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Watcher) fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.err = zerr.Wrap(err, domain.ErrWatchFailed.Error())
}

// directories walks root and yields every directory to watch.
func (w *Watcher) directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if w.skip(path, d.Name()) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) skip(path, name string) bool {
	return skippedDirectories[name] || w.ignored[filepath.Clean(path)]
}

// processEvents converts fsnotify events until the context ends or the
// backend closes or fails.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

			if watchEvent.Operation == ports.OpCreate {
				w.addCreatedDir(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.fail(err)
			return
		}
	}
}

// addCreatedDir starts watching a directory created after Start.
func (w *Watcher) addCreatedDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	for dir := range w.directories(path) {
		_ = w.fsWatcher.Add(dir)
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
