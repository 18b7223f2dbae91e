package scale

import (
	"math"

	mscale "github.com/aclements/go-moremath/scale"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/errors"
)

// KindIdentity is reported by the degenerate identity scale.
const KindIdentity chart.ScaleKind = "identity"

// Scale maps domain values to range coordinates.
type Scale interface {
	// Kind reports the scale type.
	Kind() chart.ScaleKind
	// Map returns the range coordinate of v. For band scales this is the
	// leading edge of the band. ok is false for values outside a band
	// domain or non-numeric values on a continuous scale.
	Map(v any) (pos float64, ok bool)
	// Range returns the configured output extent.
	Range() (r0, r1 float64)
	// Bandwidth is the band size, zero for continuous scales.
	Bandwidth() float64
	// Domain returns the domain the scale was built from.
	Domain() Domain
}

// Build constructs a scale for an axis.
//
// An explicit axis domain overrides the derived one for continuous scales.
// An empty derived domain yields an [Identity] scale rather than an error.
func Build(axis chart.AxisConfig, r0, r1 float64, derived Domain) (Scale, error) {
	kind, err := chart.ParseScaleKind(string(axis.ScaleKind))
	if err != nil {
		return nil, err
	}
	switch kind {
	case chart.ScaleBand:
		if derived.Kind != chart.ScaleBand {
			return nil, errors.New(errors.ErrCodeInvalidScaleKind, "band scale needs a categorical domain")
		}
		if derived.Empty() {
			return NewIdentity(r0, r1), nil
		}
		inner, outer := axis.Padding()
		return NewBand(derived.Keys, r0, r1, inner, outer, axis.RoundBands), nil
	default:
		if len(axis.Domain) == 2 {
			return NewLinear(axis.Domain[0], axis.Domain[1], r0, r1), nil
		}
		if derived.Kind == chart.ScaleBand {
			return nil, errors.New(errors.ErrCodeInvalidScaleKind, "linear scale needs a continuous domain")
		}
		if derived.Empty() {
			return NewIdentity(r0, r1), nil
		}
		return NewLinear(derived.Min, derived.Max, r0, r1), nil
	}
}

// =============================================================================
// Linear
// =============================================================================

// Linear is a continuous scale. Reversing r0 and r1 flips the direction,
// which is how y axes grow upwards.
type Linear struct {
	s      mscale.Linear
	r0, r1 float64
}

// NewLinear returns a linear scale from [min, max] onto [r0, r1].
func NewLinear(min, max, r0, r1 float64) *Linear {
	return &Linear{s: mscale.Linear{Min: min, Max: max}, r0: r0, r1: r1}
}

func (l *Linear) Kind() chart.ScaleKind      { return chart.ScaleLinear }
func (l *Linear) Range() (r0, r1 float64)    { return l.r0, l.r1 }
func (l *Linear) Bandwidth() float64         { return 0 }
func (l *Linear) Domain() Domain             { return Domain{Kind: chart.ScaleLinear, Min: l.s.Min, Max: l.s.Max} }
func (l *Linear) Bounds() (min, max float64) { return l.s.Min, l.s.Max }
func (l *Linear) Map(v any) (float64, bool) {
	f, ok := data.ToNumber(v)
	if !ok {
		return 0, false
	}
	return l.MapFloat(f), true
}

// MapFloat maps a number without type coercion.
func (l *Linear) MapFloat(f float64) float64 {
	if l.s.Min == l.s.Max {
		return (l.r0 + l.r1) / 2
	}
	return l.r0 + l.s.Map(f)*(l.r1-l.r0)
}

// Ticks returns the major ticks chosen under o, in increasing order. Ticks
// never fall outside the domain.
func (l *Linear) Ticks(o mscale.TickOptions) []float64 {
	if l.s.Min == l.s.Max {
		return []float64{l.s.Min}
	}
	major, _ := l.s.Ticks(o)
	out := major[:0]
	for _, t := range major {
		if t >= l.s.Min-1e-9 && t <= l.s.Max+1e-9 {
			out = append(out, t)
		}
	}
	return out
}

// =============================================================================
// Band
// =============================================================================

// Band divides a range into one equal band per key.
//
// With n keys, inner padding p and outer padding o the step between band
// starts is extent / (n - p + 2o) and each band is step × (1 - p) wide, so
// with no padding the bands tile the range exactly.
type Band struct {
	keys      []string
	index     map[string]int
	r0, r1    float64
	positions []float64
	bandwidth float64
	step      float64
}

// NewBand returns a band scale over keys. Duplicate keys keep their first
// position.
func NewBand(keys []string, r0, r1, inner, outer float64, round bool) *Band {
	b := &Band{r0: r0, r1: r1, index: make(map[string]int, len(keys))}
	for _, k := range keys {
		if _, dup := b.index[k]; dup {
			continue
		}
		b.index[k] = len(b.keys)
		b.keys = append(b.keys, k)
	}

	n := float64(len(b.keys))
	lo, hi := math.Min(r0, r1), math.Max(r0, r1)
	denom := n - inner + 2*outer
	if n == 0 || denom <= 0 {
		return b
	}

	var start float64
	if round {
		b.step = math.Floor((hi - lo) / denom)
		start = lo + math.Round((hi-lo-(n-inner)*b.step)/2)
		b.bandwidth = math.Round(b.step * (1 - inner))
	} else {
		b.step = (hi - lo) / denom
		start = lo + b.step*outer
		b.bandwidth = b.step * (1 - inner)
	}

	b.positions = make([]float64, len(b.keys))
	for i := range b.keys {
		b.positions[i] = start + float64(i)*b.step
	}
	if r1 < r0 {
		for i, j := 0, len(b.positions)-1; i < j; i, j = i+1, j-1 {
			b.positions[i], b.positions[j] = b.positions[j], b.positions[i]
		}
	}
	return b
}

func (b *Band) Kind() chart.ScaleKind   { return chart.ScaleBand }
func (b *Band) Range() (r0, r1 float64) { return b.r0, b.r1 }
func (b *Band) Bandwidth() float64      { return b.bandwidth }
func (b *Band) Step() float64           { return b.step }
func (b *Band) Domain() Domain          { return Domain{Kind: chart.ScaleBand, Keys: b.Keys()} }

// Keys returns the band keys in order.
func (b *Band) Keys() []string { return append([]string(nil), b.keys...) }

// Map returns the leading edge of the band for v.
func (b *Band) Map(v any) (float64, bool) {
	k, ok := v.(string)
	if !ok {
		k = data.FormatKey(v)
	}
	return b.MapKey(k)
}

// MapKey returns the leading edge of the band for key.
func (b *Band) MapKey(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok || b.positions == nil {
		return 0, false
	}
	return b.positions[i], true
}

// =============================================================================
// Identity
// =============================================================================

// Identity is the degenerate scale built from an empty domain. Numbers map
// to themselves; everything else maps to the start of the range.
type Identity struct {
	r0, r1 float64
}

// NewIdentity returns an identity scale over [r0, r1].
func NewIdentity(r0, r1 float64) *Identity { return &Identity{r0: r0, r1: r1} }

func (s *Identity) Kind() chart.ScaleKind   { return KindIdentity }
func (s *Identity) Range() (r0, r1 float64) { return s.r0, s.r1 }
func (s *Identity) Bandwidth() float64      { return 0 }
func (s *Identity) Domain() Domain          { return EmptyDomain(KindIdentity) }
func (s *Identity) Map(v any) (float64, bool) {
	if f, ok := data.ToNumber(v); ok {
		return f, true
	}
	return s.r0, true
}
