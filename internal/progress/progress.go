// Package progress carries live scan counters from the walker to
// whoever wants to display them.
package progress

import (
	"sync"
	"time"
)

// ScanUpdate is a snapshot of the walker's running counters. Every
// field is non-decreasing across a single walk.
type ScanUpdate struct {
	FilesScanned int
	DirsScanned  int
	FilesMatched int
	DirsMatched  int
	TotalSize    int64
}

// Notifier receives scan updates. The walker calls Notify synchronously
// on its own control flow, so implementations must return promptly.
type Notifier interface {
	Notify(update ScanUpdate)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(update ScanUpdate)

// Notify implements Notifier.
func (f NotifierFunc) Notify(update ScanUpdate) { f(update) }

// Reporter is a thread-safe Notifier that fans updates out to
// subscribed channels without blocking the walker.
type Reporter struct {
	mu        sync.RWMutex
	last      ScanUpdate
	started   time.Time
	listeners []chan ScanUpdate
}

// NewReporter creates a Reporter.
func NewReporter() *Reporter {
	return &Reporter{started: time.Now()}
}

// Subscribe returns a channel that receives scan updates. Updates are
// dropped rather than queued when the subscriber falls behind.
func (r *Reporter) Subscribe() <-chan ScanUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan ScanUpdate, 16)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel.
func (r *Reporter) Unsubscribe(ch <-chan ScanUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, listener := range r.listeners {
		if listener == ch {
			close(listener)
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Close closes every remaining listener channel. Call once the walk
// that feeds this reporter has finished.
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, listener := range r.listeners {
		close(listener)
	}
	r.listeners = nil
}

// Notify implements Notifier: it records the update and broadcasts it
// to all listeners without blocking.
func (r *Reporter) Notify(update ScanUpdate) {
	r.mu.Lock()
	r.last = update
	listeners := make([]chan ScanUpdate, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, listener := range listeners {
		select {
		case listener <- update:
		default:
			// Skip if channel is full
		}
	}
}

// Last returns the most recent update seen by this reporter.
func (r *Reporter) Last() ScanUpdate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Elapsed returns the time since the reporter was created.
func (r *Reporter) Elapsed() time.Duration {
	return time.Since(r.started)
}
