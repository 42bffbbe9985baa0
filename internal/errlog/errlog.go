// Package errlog keeps a small rolling window of recent server errors for the
// admin surface. The buffer is injected where it is needed so tests can swap
// it out or disable it.
package errlog

import (
	"fmt"
	"sync"
	"time"
)

// Sink receives server-side error reports.
type Sink interface {
	Add(message string)
	Recent() []string
	Clear()
}

// Ring is a bounded, newest-first ring buffer of error messages.
type Ring struct {
	mu      sync.Mutex
	max     int
	entries []string
	now     func() time.Time
}

const defaultCapacity = 15

// NewRing creates a ring buffer holding at most capacity entries. A capacity
// of zero or less falls back to the default of 15.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Ring{max: capacity, now: time.Now}
}

// Add prepends a timestamped message, evicting the oldest entry when full.
func (r *Ring) Add(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := fmt.Sprintf("%s - %s", r.now().Format("15:04:05"), message)
	r.entries = append([]string{entry}, r.entries...)
	if len(r.entries) > r.max {
		r.entries = r.entries[:r.max]
	}
}

// Recent returns a copy of the buffered entries, newest first.
func (r *Ring) Recent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

// Clear empties the buffer.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

// Discard is a Sink that drops everything. Useful in tests.
type Discard struct{}

func (Discard) Add(string) {}

func (Discard) Recent() []string { return nil }

func (Discard) Clear() {}
