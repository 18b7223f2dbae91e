// Package transition animates marks between geometries.
//
// Interpolation and scheduling are separate. [Interpolate] is a pure
// function of two geometries and a progress value. The [Scheduler] owns the
// running tasks and, each time it is advanced to a new instant, computes
// every task's progress and hands it to the task's step function. Nothing
// runs in the background: the host decides when to advance, which keeps
// animation state reproducible under a manual clock.
package transition

import (
	"github.com/matzehuels/animchart/pkg/colors"
	"github.com/matzehuels/animchart/pkg/join"
)

// Interpolate returns the geometry at progress t between a and b. t is
// clamped to [0, 1]; Interpolate(a, b, 0) == a and Interpolate(a, b, 1) == b.
func Interpolate(a, b join.Geometry, t float64) join.Geometry {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}
	lerp := func(x, y float64) float64 { return x + (y-x)*t }
	return join.Geometry{
		X:           lerp(a.X, b.X),
		Y:           lerp(a.Y, b.Y),
		Width:       lerp(a.Width, b.Width),
		Height:      lerp(a.Height, b.Height),
		Radius:      lerp(a.Radius, b.Radius),
		InnerRadius: lerp(a.InnerRadius, b.InnerRadius),
		StartAngle:  lerp(a.StartAngle, b.StartAngle),
		EndAngle:    lerp(a.EndAngle, b.EndAngle),
		Opacity:     lerp(a.Opacity, b.Opacity),
		Color:       colors.Blend(a.Color, b.Color, t),
	}
}
