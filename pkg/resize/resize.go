// Package resize debounces container width changes into rebuild requests.
//
// The [Controller] is an explicit state machine:
//
//	idle --width change--> pending --window elapsed--> fired --Poll--> idle
//	            pending --width change--> pending (timer reset)
//
// The first width observed after attachment only records the starting size;
// it never arms the timer. Time comes from an injected clock.Clock and the
// controller never starts goroutines: the host calls [Controller.Poll] from
// its own event loop and receives at most one [Event] per quiet period.
package resize

import (
	"time"

	"github.com/matzehuels/animchart/pkg/clock"
)

// DefaultWindow is the debounce window.
const DefaultWindow = 250 * time.Millisecond

// State is the controller's debounce state.
type State int

// Controller states.
const (
	Idle State = iota
	Pending
	Fired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Fired:
		return "fired"
	}
	return "unknown"
}

// Event is a debounced resize.
type Event struct {
	Width float64
	At    time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithWindow sets the debounce window.
func WithWindow(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.window = d
		}
	}
}

// Controller debounces width observations.
type Controller struct {
	clock    clock.Clock
	window   time.Duration
	state    State
	attached bool
	width    float64
	deadline time.Time
}

// New returns an idle controller. A nil clock uses the wall clock.
func New(clk clock.Clock, opts ...Option) *Controller {
	if clk == nil {
		clk = clock.Real{}
	}
	c := &Controller{clock: clk, window: DefaultWindow}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Width returns the last observed width.
func (c *Controller) Width() float64 { return c.width }

// Deadline returns when a pending resize fires.
func (c *Controller) Deadline() (time.Time, bool) {
	return c.deadline, c.state == Pending
}

// Observe records a width measurement. It reports whether the measurement
// armed or reset the debounce timer.
func (c *Controller) Observe(width float64) bool {
	if !c.attached {
		c.attached = true
		c.width = width
		return false
	}
	if width == c.width && c.state != Pending {
		return false
	}
	c.width = width
	c.state = Pending
	c.deadline = c.clock.Now().Add(c.window)
	return true
}

// Poll fires the pending resize once its window has elapsed with no
// further changes, returning the event and moving back to idle.
func (c *Controller) Poll() (Event, bool) {
	if c.state != Pending || c.clock.Now().Before(c.deadline) {
		return Event{}, false
	}
	c.state = Fired
	ev := Event{Width: c.width, At: c.clock.Now()}
	c.state = Idle
	return ev, true
}

// Reset detaches the controller; the next observation is treated as the
// first one again.
func (c *Controller) Reset() {
	*c = Controller{clock: c.clock, window: c.window}
}
