// Package fonts measures label text for axis layout.
//
// The measurer uses the Go fonts bundled with golang.org/x/image, so text
// widths match what the SVG sink declares as its font family without any
// system font lookup.
//
// A parsed font is read-only and shared; each [Measurer.Acquire] call creates
// a font.Face, which is not safe for concurrent use, and the returned probe
// owns it until Close.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/animchart/pkg/axis"
)

// FontFamily is the CSS font-family the SVG sink emits for labels.
const FontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// MonoFontFamily is the CSS font-family for monospaced labels.
const MonoFontFamily = `'Go Mono', Menlo, monospace`

// Face selects one of the bundled fonts.
type Face int

// Bundled faces.
const (
	Regular Face = iota
	Mono
)

var (
	parsed   [2]*opentype.Font
	parseErr [2]error
	parseOne [2]sync.Once
)

func load(face Face) (*opentype.Font, error) {
	parseOne[face].Do(func() {
		src := goregular.TTF
		if face == Mono {
			src = gomono.TTF
		}
		parsed[face], parseErr[face] = opentype.Parse(src)
	})
	return parsed[face], parseErr[face]
}

// Measurer implements axis.Measurer with a bundled font.
type Measurer struct {
	face Face
	size float64
}

var _ axis.Measurer = (*Measurer)(nil)

// NewMeasurer returns a measurer for face at size pixels.
func NewMeasurer(face Face, size float64) *Measurer {
	if size <= 0 {
		size = axis.DefaultFontSize
	}
	return &Measurer{face: face, size: size}
}

// Size returns the font size in pixels.
func (m *Measurer) Size() float64 { return m.size }

// Acquire creates a font face for measuring. The probe must be closed.
func (m *Measurer) Acquire() (axis.Probe, error) {
	f, err := load(m.face)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    m.size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return &probe{face: face}, nil
}

type probe struct {
	face font.Face
}

func (p *probe) Width(text string) (float64, error) {
	if p.face == nil {
		return 0, fmt.Errorf("probe closed")
	}
	adv := font.MeasureString(p.face, text)
	return float64(adv) / 64, nil
}

func (p *probe) Close() error {
	if p.face == nil {
		return nil
	}
	err := p.face.Close()
	p.face = nil
	return err
}
