// Package clock defines the time source of the ledger.
//
// The contract reads the clock exactly once per operation and the value is
// authoritative for that operation. A ledger deployment would use the block
// timestamp; a standalone deployment uses the wall clock wrapped so that it
// never goes backward.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current time to the contracts.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
//
// - implements clock.Clock
type systemClock struct{}

// System returns a clock reading the wall clock of the machine.
func System() Clock {
	return systemClock{}
}

// Now implements clock.Clock. It returns the current wall clock time.
func (systemClock) Now() time.Time {
	return time.Now()
}

// Monotonic wraps a clock so that the reported time never decreases, even
// when the underlying source jumps backward.
//
// - implements clock.Clock
type Monotonic struct {
	sync.Mutex

	src  Clock
	last time.Time
}

// NewMonotonic creates a monotonically non-decreasing clock on top of the
// source.
func NewMonotonic(src Clock) *Monotonic {
	return &Monotonic{
		src: src,
	}
}

// Now implements clock.Clock. It returns the time of the source, clamped so
// that two consecutive reads never go backward.
func (c *Monotonic) Now() time.Time {
	c.Lock()
	defer c.Unlock()

	now := c.src.Now()
	if now.Before(c.last) {
		return c.last
	}

	c.last = now

	return now
}
