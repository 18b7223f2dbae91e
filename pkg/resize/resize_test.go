package resize

import (
	"testing"
	"time"

	"github.com/matzehuels/animchart/pkg/clock"
)

func TestFirstObservationIgnored(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	c := New(clk)

	if c.Observe(800) {
		t.Error("first observation armed the timer")
	}
	clk.Advance(time.Second)
	if _, ok := c.Poll(); ok {
		t.Error("first observation fired")
	}
	if c.State() != Idle {
		t.Errorf("State() = %v, want idle", c.State())
	}
}

func TestDebounceCoalesces(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	c := New(clk)
	c.Observe(800)

	// Three changes 50ms apart.
	var last time.Time
	for _, w := range []float64{700, 650, 600} {
		if !c.Observe(w) {
			t.Fatalf("Observe(%v) did not arm", w)
		}
		last = clk.Now()
		clk.Advance(50 * time.Millisecond)
		if _, ok := c.Poll(); ok {
			t.Fatal("fired while changes kept arriving")
		}
	}

	fired := 0
	var ev Event
	for i := 0; i < 20; i++ {
		clk.Advance(25 * time.Millisecond)
		if e, ok := c.Poll(); ok {
			fired++
			ev = e
		}
	}
	if fired != 1 {
		t.Fatalf("fired %d times, want 1", fired)
	}
	if ev.Width != 600 {
		t.Errorf("Width = %v, want 600", ev.Width)
	}
	if ev.At.Sub(last) < DefaultWindow {
		t.Errorf("fired %v after last change, want >= %v", ev.At.Sub(last), DefaultWindow)
	}
	if c.State() != Idle {
		t.Errorf("State() = %v after firing, want idle", c.State())
	}
}

func TestUnchangedWidthDoesNotArm(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	c := New(clk, WithWindow(100*time.Millisecond))
	c.Observe(500)
	if c.Observe(500) {
		t.Error("same width armed the timer")
	}
	if c.State() != Idle {
		t.Errorf("State() = %v", c.State())
	}
}

func TestChangeWhilePendingResets(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	c := New(clk, WithWindow(100*time.Millisecond))
	c.Observe(500)

	c.Observe(400)
	first, _ := c.Deadline()
	clk.Advance(80 * time.Millisecond)
	c.Observe(400) // same width, but still pending: resets
	second, pending := c.Deadline()
	if !pending || !second.After(first) {
		t.Errorf("deadline %v -> %v, want reset", first, second)
	}

	clk.Advance(90 * time.Millisecond)
	if _, ok := c.Poll(); ok {
		t.Error("fired before reset window elapsed")
	}
	clk.Advance(10 * time.Millisecond)
	if _, ok := c.Poll(); !ok {
		t.Error("did not fire after reset window")
	}
}

func TestReset(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	c := New(clk)
	c.Observe(500)
	c.Observe(400)
	c.Reset()
	if c.State() != Idle {
		t.Errorf("State() = %v", c.State())
	}
	if c.Observe(300) {
		t.Error("observation after Reset should be treated as first")
	}
}
