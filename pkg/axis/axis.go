package axis

import (
	"math"

	mscale "github.com/aclements/go-moremath/scale"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/errors"
	"github.com/matzehuels/animchart/pkg/scale"
)

// Tick is one labelled position on an axis.
type Tick struct {
	Value    any      // float64 for continuous axes, category key for band axes
	Position float64  // pixel position; band ticks sit at the band center
	Label    string   // formatted label
	Lines    []string // wrapped label, one entry per line
}

// Spec is a laid-out axis.
type Spec struct {
	Orientation chart.Orientation
	TickSize    float64
	TickPadding float64
	FullWidth   bool
	Ticks       []Tick

	// RequiredLeftMargin is the margin the labels need, or zero when margin
	// fitting is disabled or skipped.
	RequiredLeftMargin float64
}

// Option configures Layout.
type Option func(*layoutOpts)

type layoutOpts struct {
	measurer Measurer
	fontSize float64
}

// WithMeasurer measures labels with m instead of estimating their width.
func WithMeasurer(m Measurer) Option {
	return func(o *layoutOpts) { o.measurer = m }
}

// WithFontSize sets the label font size used for estimates and overlap.
func WithFontSize(size float64) Option {
	return func(o *layoutOpts) {
		if size > 0 {
			o.fontSize = size
		}
	}
}

// Layout computes the ticks of an axis drawn along s.
//
// The returned Spec is always usable. A non-nil error reports a measurement
// failure (errors.ErrCodeMeasurement): margin fitting was skipped and
// RequiredLeftMargin is zero.
func Layout(s scale.Scale, cfg chart.AxisConfig, opts ...Option) (Spec, error) {
	o := layoutOpts{fontSize: DefaultFontSize}
	for _, opt := range opts {
		opt(&o)
	}

	spec := Spec{
		Orientation: cfg.Orientation,
		TickSize:    cfg.TickSize,
		TickPadding: cfg.TickPadding,
		FullWidth:   cfg.FullWidthTicks,
	}

	var probe Probe
	var measureErr error
	if o.measurer != nil {
		p, err := o.measurer.Acquire()
		if err != nil {
			measureErr = errors.Wrap(errors.ErrCodeMeasurement, err, "acquire text probe")
		} else {
			probe = p
			defer p.Close()
		}
	}
	width := widthFunc(probe, o.fontSize)
	format := Formatter(cfg)

	if len(cfg.TickValues) > 0 {
		spec.Ticks = explicitTicks(s, cfg.TickValues, format)
	} else {
		switch sc := s.(type) {
		case *scale.Band:
			spec.Ticks = bandTicks(sc, format)
		case *scale.Linear:
			spec.Ticks = linearTicks(sc, cfg, format, width, o.fontSize)
		}
	}

	if band, ok := s.(*scale.Band); ok && cfg.Wraps() && cfg.Orientation.Horizontal() {
		maxWidth := band.Bandwidth() * WrapFactor
		for i := range spec.Ticks {
			spec.Ticks[i].Lines = Wrap(spec.Ticks[i].Label, maxWidth, width)
		}
	}

	if cfg.FitsMargin() && !cfg.Orientation.Horizontal() && probe != nil {
		req, err := requiredMargin(spec.Ticks, probe)
		if err != nil {
			return spec, err
		}
		spec.RequiredLeftMargin = req
	}
	return spec, measureErr
}

func newTick(v any, pos float64, label string) Tick {
	return Tick{Value: v, Position: pos, Label: label, Lines: []string{label}}
}

// explicitTicks keeps the configured values in order. Values the scale cannot
// place are dropped.
func explicitTicks(s scale.Scale, values []any, format func(any) string) []Tick {
	ticks := make([]Tick, 0, len(values))
	half := s.Bandwidth() / 2
	for _, v := range values {
		pos, ok := s.Map(v)
		if !ok {
			continue
		}
		ticks = append(ticks, newTick(v, pos+half, format(v)))
	}
	return ticks
}

func bandTicks(b *scale.Band, format func(any) string) []Tick {
	keys := b.Keys()
	ticks := make([]Tick, 0, len(keys))
	half := b.Bandwidth() / 2
	for _, k := range keys {
		pos, _ := b.MapKey(k)
		ticks = append(ticks, newTick(k, pos+half, format(k)))
	}
	return ticks
}

// labelGap is the minimum free space between neighbouring labels.
const labelGap = 4.0

func linearTicks(l *scale.Linear, cfg chart.AxisConfig, format func(any) string, width func(string) float64, fontSize float64) []Tick {
	horizontal := cfg.Orientation.Horizontal()
	fits := func(ticks []float64) bool {
		for i := 1; i < len(ticks); i++ {
			spacing := math.Abs(l.MapFloat(ticks[i]) - l.MapFloat(ticks[i-1]))
			need := fontSize + labelGap
			if horizontal {
				need = (width(format(ticks[i-1]))+width(format(ticks[i])))/2 + labelGap
			}
			if spacing < need {
				return false
			}
		}
		return true
	}

	// Fewer ticks are accepted until neighbouring labels stop overlapping.
	var values []float64
	for n := max(cfg.TickCount, 1); n >= 1; n-- {
		candidate := l.Ticks(mscale.TickOptions{Max: n})
		if len(candidate) == 0 {
			continue
		}
		values = candidate
		if fits(candidate) {
			break
		}
	}

	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, newTick(v, l.MapFloat(v), format(v)))
	}
	return ticks
}
