package event

import (
	"sync"
	"time"
)

// Clock is the logical timestamp source for created_at and updated_at
type Clock interface {
	Now() uint64
}

// ClockFunc adapts a function to Clock
type ClockFunc func() uint64

func (f ClockFunc) Now() uint64 { return f() }

// SystemClock reports wall time in Unix nanoseconds
func SystemClock() Clock {
	return ClockFunc(func() uint64 { return uint64(time.Now().UnixNano()) })
}

// MonotonicClock never returns a value smaller than one it already returned
type MonotonicClock struct {
	mu     sync.Mutex
	source Clock
	last   uint64
}

// NewMonotonicClock wraps source
func NewMonotonicClock(source Clock) *MonotonicClock {
	return &MonotonicClock{source: source}
}

func (c *MonotonicClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now := c.source.Now(); now > c.last {
		c.last = now
	}
	return c.last
}
