package join

import (
	"fmt"

	"github.com/matzehuels/animchart/pkg/data"
)

// Geometry is the animatable state of a mark. Variants use the subset of
// fields they need; the rest stay zero.
type Geometry struct {
	X, Y          float64
	Width, Height float64
	Radius        float64
	InnerRadius   float64
	StartAngle    float64
	EndAngle      float64
	Opacity       float64
	Color         string
}

// State is a binding's lifecycle position.
type State int

// Binding states.
const (
	Entering State = iota
	Present
	Exiting
	Removed
)

func (s State) String() string {
	switch s {
	case Entering:
		return "entering"
	case Present:
		return "present"
	case Exiting:
		return "exiting"
	case Removed:
		return "removed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Binding associates a key with a rendered mark.
type Binding struct {
	Key     string
	Index   int // position in the latest dataset, -1 once exiting
	Datum   data.Record
	Label   string
	State   State
	Current Geometry // displayed now
	Target  Geometry // end of the running transition
}

// Settle marks the running transition as finished.
func (b *Binding) Settle() {
	b.Current = b.Target
	switch b.State {
	case Entering:
		b.State = Present
	case Exiting:
		b.State = Removed
	}
}

// Set is the ordered collection of bindings owned by one container.
type Set struct {
	order []*Binding
	byKey map[string]*Binding
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{byKey: make(map[string]*Binding)}
}

// Len returns the number of bindings, exiting ones included.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Get returns the binding for key.
func (s *Set) Get(key string) (*Binding, bool) {
	if s == nil {
		return nil, false
	}
	b, ok := s.byKey[key]
	return b, ok
}

// Bindings returns the bindings in draw order.
func (s *Set) Bindings() []*Binding {
	if s == nil {
		return nil
	}
	return append([]*Binding(nil), s.order...)
}

// Keys returns the keys in draw order.
func (s *Set) Keys() []string {
	keys := make([]string, 0, s.Len())
	for _, b := range s.Bindings() {
		keys = append(keys, b.Key)
	}
	return keys
}

// Remove drops b from the set if it is still the binding for its key.
func (s *Set) Remove(b *Binding) bool {
	if s == nil || s.byKey[b.Key] != b {
		return false
	}
	delete(s.byKey, b.Key)
	for i, o := range s.order {
		if o == b {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	b.State = Removed
	return true
}

// Clear removes every binding.
func (s *Set) Clear() {
	for _, b := range s.order {
		b.State = Removed
	}
	s.order = nil
	s.byKey = make(map[string]*Binding)
}

// Settle finishes every transition and drops exited bindings.
func (s *Set) Settle() {
	kept := s.order[:0]
	for _, b := range s.order {
		b.Settle()
		if b.State == Removed {
			delete(s.byKey, b.Key)
			continue
		}
		kept = append(kept, b)
	}
	s.order = kept
}
