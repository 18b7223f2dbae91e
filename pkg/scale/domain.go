package scale

import (
	"math"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/data"
)

// Headroom is the fraction a derived continuous domain is widened by so the
// largest mark does not touch the plot edge.
const Headroom = 0.1

// Domain is the input side of a scale.
type Domain struct {
	Kind     chart.ScaleKind
	Min, Max float64  // continuous
	Keys     []string // band, first-seen order
}

// Empty reports whether the domain has no values.
func (d Domain) Empty() bool {
	if d.Kind == chart.ScaleBand {
		return len(d.Keys) == 0
	}
	return math.IsNaN(d.Min) || math.IsNaN(d.Max)
}

// EmptyDomain returns the empty domain of the given kind.
func EmptyDomain(kind chart.ScaleKind) Domain {
	return Domain{Kind: kind, Min: math.NaN(), Max: math.NaN()}
}

// Derive computes the domain of field over ds for an axis. Records whose
// field is missing or not usable are skipped; callers normally filter them
// out first with data.Partition.
func Derive(axis chart.AxisConfig, ds data.Dataset, field data.Selector) Domain {
	if axis.ScaleKind == chart.ScaleBand {
		return DeriveKeys(ds, field)
	}
	values := make([]float64, 0, len(ds))
	for _, r := range ds {
		if v, ok := field.Number(r); ok {
			values = append(values, v)
		}
	}
	return DeriveContinuous(values, axis.IncludesZero())
}

// DeriveKeys returns the distinct keys of field in first-seen order.
func DeriveKeys(ds data.Dataset, field data.Selector) Domain {
	seen := make(map[string]bool, len(ds))
	keys := make([]string, 0, len(ds))
	for _, r := range ds {
		k, ok := field.Key(r)
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return Domain{Kind: chart.ScaleBand, Keys: keys}
}

// DeriveContinuous returns the widened extent of values.
//
// A zero-based domain spans [min(0, lo), max(0, hi)] and each non-zero end
// is pushed outward by Headroom, so values 10 and 30 give [0, 33]. Otherwise
// the top of [lo, hi] is raised by Headroom of the span.
func DeriveContinuous(values []float64, zeroBased bool) Domain {
	d := EmptyDomain(chart.ScaleLinear)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if math.IsNaN(d.Min) || v < d.Min {
			d.Min = v
		}
		if math.IsNaN(d.Max) || v > d.Max {
			d.Max = v
		}
	}
	if d.Empty() {
		return d
	}

	if zeroBased {
		d.Min = math.Min(d.Min, 0) * (1 + Headroom)
		d.Max = math.Max(d.Max, 0) * (1 + Headroom)
	} else {
		d.Max += (d.Max - d.Min) * Headroom
	}
	if d.Min == d.Max {
		d.Max = d.Min + 1
	}
	return d
}
