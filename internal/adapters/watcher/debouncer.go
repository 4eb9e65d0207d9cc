package watcher

import (
	"sync"
	"time"

	"go.trai.ch/keep/internal/core/ports"
)

// Debouncer coalesces rapid file system events into a single notification.
// An editor save often produces several raw events in quick succession; only
// the most recent one inside the window is delivered.
type Debouncer struct {
	mu       sync.Mutex
	pending  *ports.WatchEvent
	timer    *time.Timer
	window   time.Duration
	callback func(ports.WatchEvent)
	stopped  bool
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(ports.WatchEvent)) *Debouncer {
	return &Debouncer{
		window:   window,
		callback: callback,
	}
}

// Add records an event and restarts the debounce window. A later event
// replaces an earlier pending one; after a save-and-replace sequence only
// the final state of the file matters.
func (d *Debouncer) Add(event ports.WatchEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending = &event
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// Stop cancels any pending delivery. No callback runs after Stop returns.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fire delivers the pending event once the window expires. The callback runs
// with the lock held so Stop can guarantee nothing is delivered after it
// returns; callbacks must not block.
func (d *Debouncer) fire() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || d.pending == nil {
		return
	}

	event := *d.pending
	d.pending = nil
	d.timer = nil

	if d.callback != nil {
		d.callback(event)
	}
}
