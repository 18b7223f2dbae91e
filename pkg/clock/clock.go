// Package clock provides the time source used by the transition scheduler
// and the resize debouncer.
//
// Production hosts use [Real]. Tests and offline frame rendering use
// [Manual], which only moves when told to, so animation state at any
// instant is reproducible.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Real is the wall clock.
type Real struct{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// Manual is a clock advanced explicitly by its owner. It is safe for
// concurrent use.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// Epoch is the default start time of a Manual clock.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// NewManual returns a manual clock starting at start. A zero start means Epoch.
func NewManual(start time.Time) *Manual {
	if start.IsZero() {
		start = Epoch
	}
	return &Manual{now: start}
}

// Now returns the clock's current time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d and returns the new time.
func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}

// Set moves the clock to t. Moving backwards is allowed; consumers treat
// it as no time having passed.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
