// Package variant adapts the generic rendering kernel to each chart kind.
//
// An [Adapter] tells the kernel which fields a record needs, how to derive
// the x and y domains, and how to turn a dataset into keyed mark targets
// once the scales exist. Adapters are registered in a closed table indexed
// by chart.Kind; [For] never evaluates names at runtime beyond that lookup.
package variant

import (
	"math"

	"github.com/matzehuels/animchart/pkg/axis"
	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/colors"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/errors"
	"github.com/matzehuels/animchart/pkg/join"
	"github.com/matzehuels/animchart/pkg/scale"
)

// Shape is the primitive a variant draws for each mark.
type Shape int

// Mark shapes.
const (
	ShapeRect Shape = iota
	ShapeCircle
	ShapeArc
	ShapeVertex // circle joined to its neighbours by a path
)

func (s Shape) String() string {
	switch s {
	case ShapeRect:
		return "rect"
	case ShapeCircle:
		return "circle"
	case ShapeArc:
		return "arc"
	case ShapeVertex:
		return "vertex"
	}
	return "unknown"
}

// LabelOffset is the gap between a bar top and its label.
const LabelOffset = 5.0

// Context is what an adapter sees once scales are built.
type Context struct {
	Config *chart.Config
	Data   data.Dataset // well-formed records, in draw order
	X, Y   scale.Scale
	Width  float64 // plot area
	Height float64
	Colors *colors.Resolver
}

// Adapter is one chart variant.
type Adapter interface {
	// Shape is the mark primitive.
	Shape() Shape
	// Requirements lists the fields every record must carry.
	Requirements(cfg *chart.Config) []data.Requirement
	// Prepare returns the records in draw order.
	Prepare(cfg *chart.Config, ds data.Dataset) data.Dataset
	// Domains derives the x and y domains. An empty domain yields an
	// identity scale.
	Domains(cfg *chart.Config, ds data.Dataset) (x, y scale.Domain)
	// Targets computes one keyed target per record.
	Targets(ctx Context) []join.Target
	// Baseline is the geometry marks enter from and exit to.
	Baseline(ctx Context) join.BaselineFunc
}

var adapters = map[chart.Kind]Adapter{
	chart.KindBar:           bar{},
	chart.KindDiverging:     bar{diverging: true},
	chart.KindHorizontalBar: hbar{},
	chart.KindLine:          line{},
	chart.KindScatter:       scatter{},
	chart.KindBubble:        bubble{},
	chart.KindDonut:         donut{},
}

// For returns the adapter of kind.
func For(kind chart.Kind) (Adapter, error) {
	a, ok := adapters[kind]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidChartType, "no renderer for chart type %q", kind)
	}
	return a, nil
}

// =============================================================================
// Shared helpers
// =============================================================================

// keyFunc returns the identity of records for cfg: the key field when one
// is set, the record position otherwise.
func keyFunc(cfg *chart.Config) join.KeyFunc {
	if cfg.KeyField != "" {
		return join.ByField(cfg.KeyField)
	}
	return join.ByIndex()
}

func requirements(cfg *chart.Config, numeric ...data.Selector) []data.Requirement {
	var reqs []data.Requirement
	if cfg.KeyField != "" {
		reqs = append(reqs, data.Need(cfg.KeyField))
	}
	for _, f := range numeric {
		if f != "" {
			reqs = append(reqs, data.NeedNumber(f))
		}
	}
	return reqs
}

// center maps v to the middle of its band, or to its position on a
// continuous scale.
func center(s scale.Scale, v any) float64 {
	p, _ := s.Map(v)
	return p + s.Bandwidth()/2
}

// zero returns the position of 0 on s clamped to the range, the edge bars
// grow from.
func zero(s scale.Scale) float64 {
	p, _ := s.Map(0.0)
	r0, r1 := s.Range()
	lo, hi := math.Min(r0, r1), math.Max(r0, r1)
	return math.Max(lo, math.Min(hi, p))
}

// span returns the pixel interval between the zero edge and v.
func span(s scale.Scale, v float64) (lo, hi float64) {
	z := zero(s)
	p, _ := s.Map(v)
	return math.Min(z, p), math.Max(z, p)
}

func label(cfg *chart.Config, v float64) string {
	if !cfg.LabelsEnabled {
		return ""
	}
	return axis.ValueFormatter(nil, cfg.LabelFormat)(v)
}
