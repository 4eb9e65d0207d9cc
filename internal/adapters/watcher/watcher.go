// Package watcher implements single-file watching with debounced delivery.
package watcher

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
	"unique"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/zerr"

	"go.trai.ch/keep/internal/core/ports"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// DefaultDebounceWindow is the time window used to coalesce raw events.
const DefaultDebounceWindow = 50 * time.Millisecond

// Watcher implements file system watching for one script file using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	logger    ports.Logger
	target    unique.Handle[string]
	events    chan ports.WatchEvent
	loopDone  chan struct{}
	started   atomic.Bool
	stopOnce  sync.Once
	stopErr   error
}

// NewWatcher creates a new file watcher.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to initialize file watcher")
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		loopDone:  make(chan struct{}),
	}
	w.debouncer = NewDebouncer(DefaultDebounceWindow, w.emit)

	return w, nil
}

// Start begins watching the given file. The watch is placed on its directory
// rather than the file itself so the atomic save-and-replace most editors do
// is observed; the file may not exist yet.
func (w *Watcher) Start(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve watch path")
	}
	w.target = unique.Make(abs)

	dir := filepath.Dir(abs)
	if err := w.fsWatcher.Add(dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to watch script directory"), "path", dir)
	}

	w.started.Store(true)
	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources. Pending debounced
// events are dropped and the Events iterator terminates.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		w.stopErr = w.fsWatcher.Close()
		if w.started.Load() {
			<-w.loopDone
		}
		w.debouncer.Stop()
		close(w.events)
	})
	return w.stopErr
}

// Events returns an iterator of debounced file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// emit forwards a debounced event, dropping it when the consumer has fallen
// far behind; the queued events already force a re-read.
func (w *Watcher) emit(event ports.WatchEvent) {
	select {
	case w.events <- event:
	default:
	}
}

// processEvents filters raw fsnotify events down to the watched file and
// feeds them through the debouncer.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.loopDone)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if unique.Make(filepath.Clean(event.Name)) != w.target {
				continue
			}
			if converted := convertEvent(event); converted != nil {
				w.debouncer.Add(*converted)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(fmt.Sprintf("file watcher error: %v", err))
		}
	}
}

// convertEvent converts an fsnotify event to a ports.WatchEvent. Events that
// carry no content change, like chmod, map to nil.
func convertEvent(event fsnotify.Event) *ports.WatchEvent {
	switch {
	case event.Op&fsnotify.Write == fsnotify.Write:
		return &ports.WatchEvent{Path: event.Name, Operation: ports.OpWrite}
	case event.Op&fsnotify.Create == fsnotify.Create:
		return &ports.WatchEvent{Path: event.Name, Operation: ports.OpCreate}
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		return &ports.WatchEvent{Path: event.Name, Operation: ports.OpRemove}
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		return &ports.WatchEvent{Path: event.Name, Operation: ports.OpRename}
	}
	return nil
}
