package variant

import (
	"math"

	"github.com/matzehuels/animchart/pkg/join"
)

// Contains reports whether the plot-area point (x, y) lies on a mark of
// shape drawn with geometry g.
func Contains(shape Shape, g join.Geometry, x, y float64) bool {
	switch shape {
	case ShapeRect:
		return x >= g.X && x <= g.X+g.Width && y >= g.Y && y <= g.Y+g.Height
	case ShapeCircle, ShapeVertex:
		return math.Hypot(x-g.X, y-g.Y) <= g.Radius
	case ShapeArc:
		dx, dy := x-g.X, y-g.Y
		r := math.Hypot(dx, dy)
		if r < g.InnerRadius || r > g.Radius {
			return false
		}
		// Angles run clockwise from twelve o'clock.
		a := math.Atan2(dx, -dy)
		if a < 0 {
			a += 2 * math.Pi
		}
		return a >= g.StartAngle && a < g.EndAngle
	}
	return false
}
