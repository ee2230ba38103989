// Package watcher turns filesystem notifications into a stream of build-worthy events.
package watcher

import (
	"sync"
	"time"
	"unique"
)

const (
	// DefaultDebounceWindow suppresses repeated events for the same path.
	DefaultDebounceWindow = 300 * time.Millisecond
	// DefaultRetention is how long a path is remembered after its last accepted event.
	DefaultRetention = 60 * time.Second
)

// Debouncer admits the first event for a path and rejects repeats that arrive
// within the window. Entries are forgotten by Cleanup once older than the retention.
type Debouncer struct {
	mu        sync.Mutex
	lastSeen  map[unique.Handle[string]]time.Time
	window    time.Duration
	retention time.Duration
}

// NewDebouncer creates a Debouncer. A retention shorter than the window is raised to the window.
func NewDebouncer(window, retention time.Duration) *Debouncer {
	return &Debouncer{
		lastSeen:  make(map[unique.Handle[string]]time.Time),
		window:    window,
		retention: max(retention, window),
	}
}

// ShouldProcess reports whether an event for path should be acted on.
// Accepted events restart the window; rejected ones leave it untouched.
func (d *Debouncer) ShouldProcess(path string) bool {
	key := unique.Make(path)
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.lastSeen[key]; ok && now.Sub(last) < d.window {
		return false
	}
	d.lastSeen[key] = now
	return true
}

// Cleanup forgets paths whose last accepted event is at least retention old.
// It returns the number of entries removed.
func (d *Debouncer) Cleanup() int {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for key, last := range d.lastSeen {
		if now.Sub(last) >= d.retention {
			delete(d.lastSeen, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of remembered paths.
func (d *Debouncer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lastSeen)
}
