package mock

import (
	"sync"
	"time"
)

// Time is a settable clock. Until pinned it reports the wall clock.
type Time struct {
	mu     sync.RWMutex
	pinned *time.Time
}

// NewTime returns an unpinned clock.
func NewTime() *Time {
	return &Time{}
}

// SetCurrentTime pins the clock to the given instant.
func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pinned = &currentTime
}

// Reset returns the clock to wall time.
func (t *Time) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pinned = nil
}

// Now reports the pinned instant or the wall clock.
func (t *Time) Now() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.pinned != nil {
		return *t.pinned
	}
	return time.Now()
}
