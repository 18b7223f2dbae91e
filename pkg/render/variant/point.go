package variant

import (
	"math"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/join"
	"github.com/matzehuels/animchart/pkg/scale"
)

const (
	// VertexRadius is the dot drawn at each line vertex.
	VertexRadius = 3.0
	// PointRadius is the scatter dot radius.
	PointRadius = 4.0
)

// line draws one vertex per record, keyed by position. The sink joins the
// live vertex positions so the line morphs between datasets.
type line struct{}

func (line) Shape() Shape { return ShapeVertex }

func (line) Requirements(cfg *chart.Config) []data.Requirement {
	reqs := []data.Requirement{data.NeedNumber(cfg.YField)}
	if cfg.XAxis.ScaleKind == chart.ScaleBand {
		return append(reqs, data.Need(cfg.XField))
	}
	return append(reqs, data.NeedNumber(cfg.XField))
}

func (line) Prepare(_ *chart.Config, ds data.Dataset) data.Dataset { return ds }

func (line) Domains(cfg *chart.Config, ds data.Dataset) (x, y scale.Domain) {
	return scale.Derive(cfg.XAxis, ds, cfg.XField), scale.Derive(cfg.YAxis, ds, cfg.YField)
}

func (line) Targets(ctx Context) []join.Target {
	return points(ctx, join.ByIndex(), func(int, data.Record) float64 { return VertexRadius })
}

func (line) Baseline(ctx Context) join.BaselineFunc {
	z := zero(ctx.Y)
	return func(g join.Geometry) join.Geometry {
		g.Y = z
		g.Opacity = 0
		return g
	}
}

// scatter draws fixed-size dots.
type scatter struct{}

func (scatter) Shape() Shape { return ShapeCircle }

func (scatter) Requirements(cfg *chart.Config) []data.Requirement {
	return requirements(cfg, cfg.XField, cfg.YField)
}

func (scatter) Prepare(_ *chart.Config, ds data.Dataset) data.Dataset { return ds }

func (scatter) Domains(cfg *chart.Config, ds data.Dataset) (x, y scale.Domain) {
	return scale.Derive(cfg.XAxis, ds, cfg.XField), scale.Derive(cfg.YAxis, ds, cfg.YField)
}

func (scatter) Targets(ctx Context) []join.Target {
	return points(ctx, keyFunc(ctx.Config), func(int, data.Record) float64 { return PointRadius })
}

func (scatter) Baseline(Context) join.BaselineFunc { return shrink }

// bubble draws circles centered on x categories whose radius follows the
// size field, at most half a band wide.
type bubble struct{}

func (bubble) Shape() Shape { return ShapeCircle }

func (bubble) Requirements(cfg *chart.Config) []data.Requirement {
	return requirements(cfg, cfg.YField, cfg.SizeField)
}

func (bubble) Prepare(_ *chart.Config, ds data.Dataset) data.Dataset { return ds }

func (bubble) Domains(cfg *chart.Config, ds data.Dataset) (x, y scale.Domain) {
	return scale.Derive(cfg.XAxis, ds, cfg.XField), scale.Derive(cfg.YAxis, ds, cfg.YField)
}

func (bubble) Targets(ctx Context) []join.Target {
	cfg := ctx.Config
	maxSize := 0.0
	for _, rec := range ctx.Data {
		if v, ok := cfg.SizeField.Number(rec); ok {
			maxSize = math.Max(maxSize, math.Abs(v))
		}
	}
	maxRadius := ctx.X.Bandwidth() / 2
	if maxRadius == 0 {
		maxRadius = PointRadius
	}
	radius := scale.NewLinear(0, math.Max(maxSize, 1), 0, maxRadius)
	return points(ctx, keyFunc(cfg), func(_ int, rec data.Record) float64 {
		v, _ := cfg.SizeField.Number(rec)
		return radius.MapFloat(math.Abs(v))
	})
}

func (bubble) Baseline(Context) join.BaselineFunc { return shrink }

func shrink(g join.Geometry) join.Geometry {
	g.Radius = 0
	g.Opacity = 0
	return g
}

func points(ctx Context, keys join.KeyFunc, radius func(int, data.Record) float64) []join.Target {
	cfg := ctx.Config
	targets := make([]join.Target, 0, len(ctx.Data))
	for i, rec := range ctx.Data {
		key, _ := keys(i, rec)
		xv, _ := cfg.XField.Value(rec)
		v, _ := cfg.YField.Number(rec)
		targets = append(targets, join.Target{
			Key:   key,
			Datum: rec,
			Label: label(cfg, v),
			Geometry: join.Geometry{
				X:       center(ctx.X, xv),
				Y:       center(ctx.Y, v),
				Radius:  radius(i, rec),
				Opacity: 1,
				Color:   ctx.Colors.Color(i, rec),
			},
		})
	}
	return targets
}
