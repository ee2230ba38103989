package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const (
	eventChannelBuffer = 256
	errorChannelBuffer = 16
)

// Watcher implements ports.Watcher using fsnotify. Directories created while
// watching are added to the watch set.
type Watcher struct {
	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	events    chan ports.WatchEvent
	errors    chan error
	done      chan struct{}
}

// NewWatcher creates a watcher. The OS resources are acquired by Start.
func NewWatcher() *Watcher {
	return &Watcher{
		events: make(chan ports.WatchEvent, eventChannelBuffer),
		errors: make(chan error, errorChannelBuffer),
	}
}

// Start begins watching root recursively. Events flow until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsWatcher != nil {
		return zerr.With(zerr.Wrap(domain.ErrWatcherStartFailed, "watcher already started"), "root", root)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}

	for dir := range watchRecursively(root) {
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "path", dir)
		}
	}

	w.fsWatcher = fsWatcher
	w.done = make(chan struct{})
	go w.processEvents(ctx, fsWatcher, w.done)
	return nil
}

// Stop releases the OS watcher and waits for the event stream to close.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	fsWatcher, done := w.fsWatcher, w.done
	w.mu.Unlock()

	if fsWatcher == nil {
		return nil
	}
	err := fsWatcher.Close()
	<-done
	return err
}

// Events returns the event stream.
func (w *Watcher) Events() <-chan ports.WatchEvent {
	return w.events
}

// Errors returns errors reported by fsnotify. Errors are dropped when nobody reads them.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// watchRecursively yields root and every directory below it except version
// control directories, matching what a build walks.
func watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && domain.IsVCSDir(d.Name()) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) processEvents(ctx context.Context, fsWatcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent := convertEvent(event)

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !domain.IsVCSDir(info.Name()) {
					for dir := range watchRecursively(event.Name) {
						_ = fsWatcher.Add(dir)
					}
				}
			}

		case err, ok := <-fsWatcher.Errors:
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

// convertEvent maps an fsnotify event onto a WatchEvent. Write wins over
// create when both bits are set.
func convertEvent(event fsnotify.Event) ports.WatchEvent {
	op := ports.OpOther
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}
}
