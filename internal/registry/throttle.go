package registry

import (
	"sync"
	"time"
)

// throttle spaces requests at a fixed interval so the registry's rate
// limit is never the thing that fails an import.
type throttle struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
}

func newThrottle(requestsPerSecond int) *throttle {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &throttle{interval: time.Second / time.Duration(requestsPerSecond)}
}

func (t *throttle) wait() {
	t.mu.Lock()
	now := time.Now()
	next := t.last.Add(t.interval)
	if next.Before(now) {
		next = now
	}
	t.last = next
	t.mu.Unlock()

	if sleep := time.Until(next); sleep > 0 {
		time.Sleep(sleep)
	}
}
