package axis

import (
	"github.com/matzehuels/animchart/pkg/errors"
)

// MarginFactor is applied to the widest label width to get the left margin.
const MarginFactor = 1.5

// GrowMargin returns the left margin after a layout requested required.
// The margin never shrinks.
func GrowMargin(current, required float64) float64 {
	if required > current {
		return required
	}
	return current
}

// requiredMargin measures the widest label, taken to be the last tick, and
// returns MarginFactor times its width.
func requiredMargin(ticks []Tick, p Probe) (float64, error) {
	if len(ticks) == 0 {
		return 0, nil
	}
	last := ticks[len(ticks)-1].Label
	w, err := p.Width(last)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeMeasurement, err, "measure tick label %q", last)
	}
	return MarginFactor * w, nil
}
