package transition

import (
	"time"

	"github.com/matzehuels/animchart/pkg/join"
)

// Task is one scheduled animation.
type Task struct {
	// ID identifies what the task animates. Scheduling a task with the ID of
	// a running one interrupts the running task without calling its Done.
	ID       string
	Delay    time.Duration
	Duration time.Duration
	Ease     Easing

	// Step receives eased progress in [0, 1]. It is not called before the
	// delay has elapsed.
	Step func(t float64)
	// Done runs once, after the final Step.
	Done func()
}

type running struct {
	Task
	start time.Time
}

// Scheduler runs tasks against an externally supplied clock.
type Scheduler struct {
	tasks []*running
	byID  map[string]*running
}

// NewScheduler returns an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{byID: make(map[string]*running)}
}

// Schedule starts tasks at now. Tasks are stepped in scheduling order.
func (s *Scheduler) Schedule(now time.Time, tasks ...Task) {
	for _, t := range tasks {
		if t.ID != "" {
			s.Cancel(t.ID)
		}
		r := &running{Task: t, start: now}
		s.tasks = append(s.tasks, r)
		if t.ID != "" {
			s.byID[t.ID] = r
		}
	}
}

// Advance steps every started task to now, completes finished ones and
// returns the number still running.
func (s *Scheduler) Advance(now time.Time) int {
	var done []*running
	kept := s.tasks[:0]
	for _, r := range s.tasks {
		elapsed := now.Sub(r.start) - r.Delay
		if elapsed < 0 {
			kept = append(kept, r)
			continue
		}
		if r.Duration <= 0 || elapsed >= r.Duration {
			done = append(done, r)
			continue
		}
		r.step(float64(elapsed) / float64(r.Duration))
		kept = append(kept, r)
	}
	s.tasks = kept
	s.finish(done)
	return len(s.tasks)
}

// Flush completes every task immediately.
func (s *Scheduler) Flush() {
	done := s.tasks
	s.tasks = nil
	s.finish(done)
}

func (s *Scheduler) finish(done []*running) {
	for _, r := range done {
		if r.ID != "" && s.byID[r.ID] == r {
			delete(s.byID, r.ID)
		}
		r.step(1)
		if r.Done != nil {
			r.Done()
		}
	}
}

func (r *running) step(p float64) {
	if r.Step == nil {
		return
	}
	if r.Ease != nil && p < 1 {
		p = r.Ease(p)
	}
	r.Step(p)
}

// Cancel stops the task with id without completing it.
func (s *Scheduler) Cancel(id string) bool {
	r, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	for i, t := range s.tasks {
		if t == r {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	return true
}

// CancelAll stops every task without completing it.
func (s *Scheduler) CancelAll() {
	s.tasks = nil
	s.byID = make(map[string]*running)
}

// Active returns the number of tasks not yet finished.
func (s *Scheduler) Active() int { return len(s.tasks) }

// Deadline returns when the last running task finishes.
func (s *Scheduler) Deadline() (time.Time, bool) {
	var end time.Time
	for _, r := range s.tasks {
		if e := r.start.Add(r.Delay + r.Duration); e.After(end) {
			end = e
		}
	}
	return end, len(s.tasks) > 0
}

// =============================================================================
// Mark groups
// =============================================================================

// Timing configures a mark group.
type Timing struct {
	Duration time.Duration
	Stagger  time.Duration
	Ease     Easing
}

// ScheduleGroup animates each mark's binding from its old to its new
// geometry. Mark i starts after Index × Stagger. When a mark finishes its
// binding is settled and onDone, if set, is called. prefix namespaces the
// task IDs so groups of different layers do not interrupt each other.
func (s *Scheduler) ScheduleGroup(now time.Time, prefix string, group []join.Mark, timing Timing, onDone func(join.Mark)) {
	tasks := make([]Task, 0, len(group))
	for _, m := range group {
		if m.Binding == nil {
			continue
		}
		m := m
		b := m.Binding
		tasks = append(tasks, Task{
			ID:       prefix + m.Key,
			Delay:    time.Duration(m.Index) * timing.Stagger,
			Duration: timing.Duration,
			Ease:     timing.Ease,
			Step: func(t float64) {
				b.Current = Interpolate(m.Old, m.New, t)
			},
			Done: func() {
				b.Settle()
				if onDone != nil {
					onDone(m)
				}
			},
		})
	}
	s.Schedule(now, tasks...)
}
