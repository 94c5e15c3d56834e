package playbacksync

import (
	"sync"
	"time"
)

const DefaultInterval = 250 * time.Millisecond

// Throttle accepts at most one event per interval. time.Now carries a
// monotonic reading, so wall-clock jumps do not affect it.
type Throttle struct {
	interval time.Duration
	now      func() time.Time
	last     time.Time
	mu       sync.Mutex
}

func NewThrottle(interval time.Duration) *Throttle {
	return newThrottle(interval, time.Now)
}

func newThrottle(interval time.Duration, now func() time.Time) *Throttle {
	return &Throttle{interval: interval, now: now}
}

// Allow reports whether an event may pass now and records it as the last
// accepted one if so.
func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now

	return true
}
