package join

import (
	"github.com/matzehuels/animchart/pkg/data"
)

// Target is the geometry a new dataset wants for one key.
type Target struct {
	Key      string
	Datum    data.Record
	Label    string
	Geometry Geometry
}

// BaselineFunc returns the zero geometry a mark enters from or exits to.
type BaselineFunc func(Geometry) Geometry

// FadeBaseline keeps the position and fades the mark out.
func FadeBaseline(g Geometry) Geometry {
	g.Opacity = 0
	return g
}

// Mark is one classified key.
type Mark struct {
	Key   string
	Index int // stagger index: dataset position for enter/update, exit order for exit
	Old   Geometry
	New   Geometry
	Datum data.Record
	Label string

	// Continuing is set on exits already in flight before this render.
	Continuing bool

	// Binding is filled in by Plan.Apply.
	Binding *Binding
}

// Plan is the outcome of Reconcile.
type Plan struct {
	Enter  []Mark
	Update []Mark
	Exit   []Mark

	// Duplicates lists keys dropped because an earlier record already used them.
	Duplicates []string

	set     *Set
	applied bool
}

// KeyFunc derives the identity of the record at index i.
type KeyFunc func(i int, r data.Record) (string, bool)

// ByField keys records by a field value.
func ByField(field data.Selector) KeyFunc {
	return func(_ int, r data.Record) (string, bool) { return field.Key(r) }
}

// ByIndex keys records by position.
func ByIndex() KeyFunc {
	return func(i int, _ data.Record) (string, bool) { return data.FormatKey(i), true }
}

// Reconcile classifies next against the bindings of prev. A nil prev is
// full-rebuild mode: every target enters. Enter and update keep the order
// of next. prev is not modified.
func Reconcile(prev *Set, next []Target, baseline BaselineFunc) *Plan {
	if baseline == nil {
		baseline = FadeBaseline
	}
	if prev == nil {
		prev = NewSet()
	}
	p := &Plan{set: prev}

	seen := make(map[string]bool, len(next))
	for i, t := range next {
		if seen[t.Key] {
			p.Duplicates = append(p.Duplicates, t.Key)
			continue
		}
		seen[t.Key] = true

		m := Mark{Key: t.Key, Index: i, New: t.Geometry, Datum: t.Datum, Label: t.Label}
		if b, ok := prev.byKey[t.Key]; ok && b.State != Removed {
			m.Old = b.Current
			m.Binding = b
			p.Update = append(p.Update, m)
			continue
		}
		m.Old = baseline(t.Geometry)
		p.Enter = append(p.Enter, m)
	}

	for _, b := range prev.order {
		if seen[b.Key] || b.State == Removed {
			continue
		}
		p.Exit = append(p.Exit, Mark{
			Key:        b.Key,
			Index:      len(p.Exit),
			Old:        b.Current,
			New:        baseline(b.Current),
			Datum:      b.Datum,
			Label:      b.Label,
			Continuing: b.State == Exiting,
			Binding:    b,
		})
	}
	return p
}

// Apply commits the plan to the set it was computed from and returns it.
// Entering bindings start at their baseline geometry; all bindings get the
// plan's new geometry as their target. Continuing exits keep their target.
// Apply is a no-op after the first call.
func (p *Plan) Apply() *Set {
	s := p.set
	if p.applied {
		return s
	}
	p.applied = true

	order := make([]*Binding, 0, len(p.Enter)+len(p.Update)+len(p.Exit))
	byKey := make(map[string]*Binding, cap(order))

	// Rebuild in dataset order: merge enter and update by index.
	ei, ui := 0, 0
	for ei < len(p.Enter) || ui < len(p.Update) {
		var m *Mark
		if ui >= len(p.Update) || (ei < len(p.Enter) && p.Enter[ei].Index < p.Update[ui].Index) {
			m = &p.Enter[ei]
			ei++
			m.Binding = &Binding{Key: m.Key, State: Entering, Current: m.Old}
		} else {
			m = &p.Update[ui]
			ui++
			if m.Binding.State == Exiting {
				m.Binding.State = Present
			}
		}
		b := m.Binding
		b.Index = m.Index
		b.Datum = m.Datum
		b.Label = m.Label
		b.Target = m.New
		order = append(order, b)
		byKey[b.Key] = b
	}

	for i := range p.Exit {
		m := &p.Exit[i]
		b := m.Binding
		if !m.Continuing {
			b.State = Exiting
			b.Index = -1
			b.Target = m.New
		}
		order = append(order, b)
		byKey[b.Key] = b
	}

	s.order = order
	s.byKey = byKey
	return s
}

// Counts returns the sizes of the three groups.
func (p *Plan) Counts() (enter, update, exit int) {
	return len(p.Enter), len(p.Update), len(p.Exit)
}
