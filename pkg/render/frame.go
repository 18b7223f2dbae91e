package render

import (
	"time"

	"github.com/matzehuels/animchart/pkg/axis"
	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/join"
	"github.com/matzehuels/animchart/pkg/render/variant"
)

// Frame is a snapshot of what a container displays at one instant. Mark
// and tick coordinates are relative to the plot area, whose top-left corner
// sits at (Margin.Left, Margin.Top).
type Frame struct {
	Container     string
	Kind          chart.Kind
	Shape         variant.Shape
	Width, Height float64
	Margin        chart.Margin
	Background    string
	LabelsEnabled bool
	Marks         []Mark
	XAxis         *Axis // nil when hidden or not drawn by the variant
	YAxis         *Axis
	At            time.Time
}

// PlotSize returns the size of the plot area.
func (f *Frame) PlotSize() (width, height float64) {
	return max(f.Width-f.Margin.Left-f.Margin.Right, 0), max(f.Height-f.Margin.Top-f.Margin.Bottom, 0)
}

// Mark is one displayed mark.
type Mark struct {
	Key      string
	Index    int
	State    join.State
	Label    string
	Geometry join.Geometry
}

// Axis is a displayed axis.
type Axis struct {
	Orientation chart.Orientation
	TickSize    float64
	TickPadding float64
	FullWidth   bool
	Ticks       []Tick
}

// Tick is one displayed tick. Position runs along the axis.
type Tick struct {
	Label    string
	Lines    []string
	Position float64
	Opacity  float64
}

// Frame snapshots the displayed state. Removed marks are omitted.
func (c *Container) Frame() *Frame {
	f := &Frame{
		Container: c.id,
		Width:     c.width,
		Height:    c.height,
		Margin:    c.margin,
		At:        c.clock.Now(),
	}
	if c.cfg == nil {
		return f
	}
	f.Kind = c.cfg.ChartType
	f.Shape = c.adapter.Shape()
	f.Background = c.cfg.BackgroundColor
	f.LabelsEnabled = c.cfg.LabelsEnabled

	for _, b := range c.marks.Bindings() {
		if b.State == join.Removed {
			continue
		}
		f.Marks = append(f.Marks, Mark{Key: b.Key, Index: b.Index, State: b.State, Label: b.Label, Geometry: b.Current})
	}
	f.XAxis = axisFrame(c.xAxis, c.xTicks)
	f.YAxis = axisFrame(c.yAxis, c.yTicks)
	return f
}

func axisFrame(spec *axis.Spec, ticks *join.Set) *Axis {
	if spec == nil {
		return nil
	}
	a := &Axis{
		Orientation: spec.Orientation,
		TickSize:    spec.TickSize,
		TickPadding: spec.TickPadding,
		FullWidth:   spec.FullWidth,
	}
	horizontal := spec.Orientation.Horizontal()
	for _, b := range ticks.Bindings() {
		if b.State == join.Removed {
			continue
		}
		pos := b.Current.Y
		if horizontal {
			pos = b.Current.X
		}
		lines, _ := b.Datum[tickLines].([]string)
		a.Ticks = append(a.Ticks, Tick{Label: b.Label, Lines: lines, Position: pos, Opacity: b.Current.Opacity})
	}
	return a
}

const tickLines = "lines"

// tickTargets turns a laid-out axis into join targets keyed by value, so
// ticks that survive a render slide to their new position while the rest
// fade in or out.
func tickTargets(spec *axis.Spec) []join.Target {
	if spec == nil {
		return nil
	}
	horizontal := spec.Orientation.Horizontal()
	targets := make([]join.Target, 0, len(spec.Ticks))
	for _, t := range spec.Ticks {
		g := join.Geometry{Opacity: 1}
		if horizontal {
			g.X = t.Position
		} else {
			g.Y = t.Position
		}
		targets = append(targets, join.Target{
			Key:      data.FormatKey(t.Value),
			Label:    t.Label,
			Datum:    data.Record{tickLines: t.Lines},
			Geometry: g,
		})
	}
	return targets
}
