package variant

import (
	"math"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/join"
	"github.com/matzehuels/animchart/pkg/scale"
)

const (
	// DonutInset is subtracted from half the smaller plot side.
	DonutInset = 50.0
	// MinDonutRadius floors the outer radius on small containers.
	MinDonutRadius = 10.0
	// DonutHole is the inner radius as a fraction of the outer one.
	DonutHole = 0.4
)

// donut lays the values out as arcs of one ring. It has no axes.
type donut struct{}

func (donut) Shape() Shape { return ShapeArc }

func (donut) Requirements(cfg *chart.Config) []data.Requirement {
	return requirements(cfg, cfg.YField)
}

func (donut) Prepare(_ *chart.Config, ds data.Dataset) data.Dataset { return ds }

// Domains are empty: the ring is laid out from the plot size alone.
func (donut) Domains(cfg *chart.Config, _ data.Dataset) (x, y scale.Domain) {
	return scale.EmptyDomain(cfg.XAxis.ScaleKind), scale.EmptyDomain(cfg.YAxis.ScaleKind)
}

// Radii returns the ring radii for a plot area.
func Radii(width, height float64) (outer, inner float64) {
	outer = math.Max(math.Min(width, height)/2-DonutInset, MinDonutRadius)
	return outer, outer * DonutHole
}

func (donut) Targets(ctx Context) []join.Target {
	cfg := ctx.Config
	keys := keyFunc(cfg)
	outer, inner := Radii(ctx.Width, ctx.Height)

	total := 0.0
	for _, rec := range ctx.Data {
		v, _ := cfg.YField.Number(rec)
		total += math.Max(v, 0)
	}

	targets := make([]join.Target, 0, len(ctx.Data))
	angle := 0.0
	for i, rec := range ctx.Data {
		key, _ := keys(i, rec)
		v, _ := cfg.YField.Number(rec)
		sweep := 0.0
		if total > 0 {
			sweep = 2 * math.Pi * math.Max(v, 0) / total
		}
		targets = append(targets, join.Target{
			Key:   key,
			Datum: rec,
			Label: label(cfg, v),
			Geometry: join.Geometry{
				X: ctx.Width / 2, Y: ctx.Height / 2,
				Radius: outer, InnerRadius: inner,
				StartAngle: angle, EndAngle: angle + sweep,
				Opacity: 1,
				Color:   ctx.Colors.Color(i, rec),
			},
		})
		angle += sweep
	}
	return targets
}

func (donut) Baseline(Context) join.BaselineFunc {
	return func(g join.Geometry) join.Geometry {
		g.EndAngle = g.StartAngle
		g.Opacity = 0
		return g
	}
}
