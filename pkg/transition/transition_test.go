package transition

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/animchart/pkg/clock"
	"github.com/matzehuels/animchart/pkg/errors"
	"github.com/matzehuels/animchart/pkg/join"
)

func TestInterpolate(t *testing.T) {
	a := join.Geometry{X: 0, Y: 100, Height: 0, Opacity: 0, Color: "#000000"}
	b := join.Geometry{X: 50, Y: 60, Height: 40, Opacity: 1, Color: "#ffffff"}

	if got := Interpolate(a, b, 0); got != a {
		t.Errorf("Interpolate(0) = %+v, want a", got)
	}
	if got := Interpolate(a, b, 1); got != b {
		t.Errorf("Interpolate(1) = %+v, want b", got)
	}
	if got := Interpolate(a, b, 2); got != b {
		t.Errorf("Interpolate(2) = %+v, want clamped to b", got)
	}

	mid := Interpolate(a, b, 0.5)
	want := join.Geometry{X: 25, Y: 80, Height: 20, Opacity: 0.5, Color: "#808080"}
	if mid != want {
		t.Errorf("Interpolate(0.5) = %+v, want %+v", mid, want)
	}
}

func TestParseEasing(t *testing.T) {
	for _, name := range append(Easings(), "", "Cubic-In-Out") {
		e, err := ParseEasing(name)
		if err != nil {
			t.Errorf("ParseEasing(%q) error = %v", name, err)
			continue
		}
		if got := e(0); math.Abs(got) > 1e-6 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := e(1); math.Abs(got-1) > 1e-6 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
	}
	if _, err := ParseEasing("wobble"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("ParseEasing(wobble) error = %v", err)
	}
}

func TestSchedulerStagger(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	s := NewScheduler()

	group := make([]join.Mark, 3)
	bindings := make([]*join.Binding, 3)
	for i := range group {
		bindings[i] = &join.Binding{Key: string(rune('a' + i)), State: join.Entering, Target: join.Geometry{Height: 100}}
		group[i] = join.Mark{Key: bindings[i].Key, Index: i, New: join.Geometry{Height: 100}, Binding: bindings[i]}
	}

	var finished []string
	s.ScheduleGroup(clk.Now(), "mark:", group, Timing{Duration: 300 * time.Millisecond, Stagger: 100 * time.Millisecond}, func(m join.Mark) {
		finished = append(finished, m.Key)
	})

	// t=150ms: a is halfway, b has started, c has not.
	s.Advance(clk.Advance(150 * time.Millisecond))
	if h := bindings[0].Current.Height; math.Abs(h-50) > 1e-9 {
		t.Errorf("a height at 150ms = %v, want 50", h)
	}
	if h := bindings[1].Current.Height; math.Abs(h-50.0/3) > 1e-9 {
		t.Errorf("b height at 150ms = %v, want %v", h, 50.0/3)
	}
	if h := bindings[2].Current.Height; h != 0 {
		t.Errorf("c height at 150ms = %v, want 0 (not started)", h)
	}

	// t=300ms: a done.
	s.Advance(clk.Advance(150 * time.Millisecond))
	if bindings[0].State != join.Present || len(finished) != 1 {
		t.Errorf("after 300ms: a state %v, finished %v", bindings[0].State, finished)
	}

	// t=500ms: all done.
	if n := s.Advance(clk.Advance(200 * time.Millisecond)); n != 0 {
		t.Errorf("Advance() = %d running, want 0", n)
	}
	if len(finished) != 3 {
		t.Errorf("finished = %v", finished)
	}
	for _, b := range bindings {
		if b.Current.Height != 100 || b.State != join.Present {
			t.Errorf("binding %s = %+v", b.Key, b)
		}
	}
}

func TestSchedulerInterrupt(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	s := NewScheduler()

	var firstDone, secondDone bool
	var last float64
	s.Schedule(clk.Now(), Task{ID: "x", Duration: time.Second, Step: func(p float64) { last = p }, Done: func() { firstDone = true }})
	s.Advance(clk.Advance(500 * time.Millisecond))

	s.Schedule(clk.Now(), Task{ID: "x", Duration: time.Second, Step: func(p float64) { last = -p }, Done: func() { secondDone = true }})
	if s.Active() != 1 {
		t.Fatalf("Active() = %d, want 1", s.Active())
	}
	s.Advance(clk.Advance(time.Second))

	if firstDone {
		t.Error("interrupted task ran Done")
	}
	if !secondDone || last != -1 {
		t.Errorf("second task done=%v last=%v", secondDone, last)
	}
}

func TestSchedulerZeroDurationAndFlush(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	s := NewScheduler()

	var steps []float64
	s.Schedule(clk.Now(), Task{Duration: 0, Step: func(p float64) { steps = append(steps, p) }})
	s.Advance(clk.Now())
	if len(steps) != 1 || steps[0] != 1 {
		t.Errorf("zero-duration steps = %v, want [1]", steps)
	}

	done := 0
	s.Schedule(clk.Now(), Task{Delay: time.Hour, Duration: time.Hour, Done: func() { done++ }})
	end, ok := s.Deadline()
	if !ok || !end.Equal(clk.Now().Add(2*time.Hour)) {
		t.Errorf("Deadline() = %v, %v", end, ok)
	}
	s.Flush()
	if done != 1 || s.Active() != 0 {
		t.Errorf("Flush(): done=%d active=%d", done, s.Active())
	}
	if _, ok := s.Deadline(); ok {
		t.Error("Deadline() after Flush should report idle")
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	now := clock.Epoch
	s.Schedule(now, Task{ID: "a", Duration: time.Second}, Task{ID: "b", Duration: time.Second})
	if !s.Cancel("a") || s.Cancel("a") {
		t.Error("Cancel should succeed once")
	}
	if s.Active() != 1 {
		t.Errorf("Active() = %d", s.Active())
	}
	s.CancelAll()
	if s.Active() != 0 {
		t.Errorf("Active() after CancelAll = %d", s.Active())
	}
}

func TestExitRemovedAfterAnimation(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	s := NewScheduler()
	set := join.NewSet()

	join.Reconcile(set, []join.Target{{Key: "a", Geometry: join.Geometry{Opacity: 1}}}, nil).Apply()
	set.Settle()
	plan := join.Reconcile(set, nil, nil)
	plan.Apply()

	s.ScheduleGroup(clk.Now(), "mark:", plan.Exit, Timing{Duration: 300 * time.Millisecond}, func(m join.Mark) {
		set.Remove(m.Binding)
	})

	s.Advance(clk.Advance(299 * time.Millisecond))
	if set.Len() != 1 {
		t.Fatalf("exit removed early: len %d", set.Len())
	}
	b, _ := set.Get("a")
	if b.State != join.Exiting || b.Current.Opacity <= 0 {
		t.Errorf("mid-exit binding = %+v", b)
	}

	s.Advance(clk.Advance(time.Millisecond))
	if set.Len() != 0 {
		t.Errorf("exit not removed after animation: len %d", set.Len())
	}
}
