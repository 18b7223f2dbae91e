package variant

import (
	"cmp"
	"slices"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/join"
	"github.com/matzehuels/animchart/pkg/scale"
)

// NegativeColor fills negative bars of a diverging chart with a fixed color.
const NegativeColor = "#E74C3C"

// bar draws vertical bars growing from the zero line. The diverging variant
// colors negative values differently.
type bar struct {
	diverging bool
}

func (bar) Shape() Shape { return ShapeRect }

func (bar) Requirements(cfg *chart.Config) []data.Requirement {
	return requirements(cfg, cfg.YField)
}

func (bar) Prepare(_ *chart.Config, ds data.Dataset) data.Dataset { return ds }

func (bar) Domains(cfg *chart.Config, ds data.Dataset) (x, y scale.Domain) {
	return scale.Derive(cfg.XAxis, ds, cfg.XField), scale.Derive(cfg.YAxis, ds, cfg.YField)
}

func (b bar) Targets(ctx Context) []join.Target {
	cfg := ctx.Config
	keys := keyFunc(cfg)
	targets := make([]join.Target, 0, len(ctx.Data))
	for i, rec := range ctx.Data {
		key, _ := keys(i, rec)
		xv, _ := cfg.XField.Value(rec)
		v, _ := cfg.YField.Number(rec)

		x, _ := ctx.X.Map(xv)
		top, bottom := span(ctx.Y, v)
		color := ctx.Colors.Color(i, rec)
		if b.diverging && v < 0 && cfg.ColorScale.Palette == "" {
			color = NegativeColor
		}
		targets = append(targets, join.Target{
			Key:   key,
			Datum: rec,
			Label: label(cfg, v),
			Geometry: join.Geometry{
				X: x, Y: top,
				Width: ctx.X.Bandwidth(), Height: bottom - top,
				Opacity: 1,
				Color:   color,
			},
		})
	}
	return targets
}

func (bar) Baseline(ctx Context) join.BaselineFunc {
	z := zero(ctx.Y)
	return func(g join.Geometry) join.Geometry {
		g.Y = z
		g.Height = 0
		return g
	}
}

// hbar draws horizontal bars, largest value first.
type hbar struct{}

func (hbar) Shape() Shape { return ShapeRect }

func (hbar) Requirements(cfg *chart.Config) []data.Requirement {
	return requirements(cfg, cfg.XField)
}

// Prepare sorts by value, descending. Equal values keep dataset order.
func (hbar) Prepare(cfg *chart.Config, ds data.Dataset) data.Dataset {
	sorted := slices.Clone(ds)
	slices.SortStableFunc(sorted, func(a, b data.Record) int {
		va, _ := cfg.XField.Number(a)
		vb, _ := cfg.XField.Number(b)
		return cmp.Compare(vb, va)
	})
	return sorted
}

func (hbar) Domains(cfg *chart.Config, ds data.Dataset) (x, y scale.Domain) {
	return scale.Derive(cfg.XAxis, ds, cfg.XField), scale.Derive(cfg.YAxis, ds, cfg.YField)
}

func (hbar) Targets(ctx Context) []join.Target {
	cfg := ctx.Config
	keys := keyFunc(cfg)
	targets := make([]join.Target, 0, len(ctx.Data))
	for i, rec := range ctx.Data {
		key, _ := keys(i, rec)
		yv, _ := cfg.YField.Value(rec)
		v, _ := cfg.XField.Number(rec)

		y, _ := ctx.Y.Map(yv)
		left, right := span(ctx.X, v)
		targets = append(targets, join.Target{
			Key:   key,
			Datum: rec,
			Label: label(cfg, v),
			Geometry: join.Geometry{
				X: left, Y: y,
				Width: right - left, Height: ctx.Y.Bandwidth(),
				Opacity: 1,
				Color:   ctx.Colors.Color(i, rec),
			},
		})
	}
	return targets
}

func (hbar) Baseline(ctx Context) join.BaselineFunc {
	z := zero(ctx.X)
	return func(g join.Geometry) join.Geometry {
		g.X = z
		g.Width = 0
		return g
	}
}
