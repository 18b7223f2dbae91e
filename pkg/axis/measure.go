package axis

import (
	"unicode/utf8"
)

// Measurer hands out measurement probes.
type Measurer interface {
	Acquire() (Probe, error)
}

// Probe measures rendered text width in pixels. A probe holds a resource
// (a font face, a scratch element) and must be closed after use.
type Probe interface {
	Width(text string) (float64, error)
	Close() error
}

// charWidthRatio approximates the average glyph advance as a fraction of the
// font size.
const charWidthRatio = 0.55

// DefaultFontSize is the tick label size in pixels.
const DefaultFontSize = 11.0

// estimate is the width function used without a probe.
func estimate(fontSize float64) func(string) float64 {
	return func(s string) float64 {
		return float64(utf8.RuneCountInString(s)) * fontSize * charWidthRatio
	}
}

// widthFunc returns a width function backed by p, falling back to the
// estimate for any text p fails to measure.
func widthFunc(p Probe, fontSize float64) func(string) float64 {
	est := estimate(fontSize)
	if p == nil {
		return est
	}
	return func(s string) float64 {
		w, err := p.Width(s)
		if err != nil {
			return est(s)
		}
		return w
	}
}
