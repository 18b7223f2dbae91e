// Package colors resolves mark colors.
//
// A chart either paints every mark with one fixed color or derives colors
// from a palette keyed by mark index, category or value. Qualitative
// palettes come from ColorBrewer, continuous ones from go-gg's palette
// package. Hex literals are parsed with go-chart's drawing package so they
// can be blended during transitions; any other CSS color passes through
// untouched.
package colors

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-gg/palette/brewer"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/errors"
)

var hexRegex = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseHex parses "#rgb" or "#rrggbb".
func ParseHex(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(s)
	if !hexRegex.MatchString(s) {
		return color.RGBA{}, false
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	c := drawing.ColorFromHex(s)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}, true
}

// Hex formats c as "#rrggbb".
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// Blend interpolates between two colors. Hex colors blend per channel;
// other CSS colors switch halfway.
func Blend(from, to string, t float64) string {
	switch {
	case t <= 0:
		return from
	case t >= 1 || from == to:
		return to
	}
	a, okA := ParseHex(from)
	b, okB := ParseHex(to)
	if !okA || !okB {
		if t < 0.5 {
			return from
		}
		return to
	}
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return Hex(color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255})
}

// =============================================================================
// Palettes
// =============================================================================

// PaletteViridis is the continuous palette name.
const PaletteViridis = "viridis"

// Palettes returns the accepted palette names, sorted.
func Palettes() []string {
	names := make([]string, 0, len(brewer.ByName)+1)
	for name := range brewer.ByName {
		names = append(names, name)
	}
	names = append(names, PaletteViridis)
	sort.Strings(names)
	return names
}

// largest returns the variant of a brewer palette with the most levels.
func largest(variants map[int][]color.Color) []color.Color {
	best := -1
	for n := range variants {
		if n > best {
			best = n
		}
	}
	return variants[best]
}

// Resolver assigns colors to marks.
type Resolver struct {
	fixed    string
	scale    chart.ColorScale
	discrete []color.Color
	cont     palette.Continuous

	n          int
	categories map[string]int
	min, max   float64
	valueField data.Selector
}

// NewResolver builds a resolver from a chart's color settings. An unknown
// palette is a configuration error.
func NewResolver(fixed string, cs chart.ColorScale) (*Resolver, error) {
	r := &Resolver{fixed: fixed, scale: cs}
	switch name := cs.Palette; {
	case name == "":
	case strings.EqualFold(name, PaletteViridis):
		r.cont = palette.Viridis
	default:
		variants, ok := lookupBrewer(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"unknown palette %q (must be one of: %s)", name, strings.Join(Palettes(), ", "))
		}
		r.discrete = largest(variants)
	}
	return r, nil
}

func lookupBrewer(name string) (map[int][]color.Color, bool) {
	if v, ok := brewer.ByName[name]; ok {
		return v, true
	}
	for k, v := range brewer.ByName {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

// Fit prepares the resolver for a dataset: the number of marks, the
// first-seen category order and the value extent of valueField.
func (r *Resolver) Fit(ds data.Dataset, valueField data.Selector) {
	r.n = len(ds)
	r.valueField = valueField
	r.categories = make(map[string]int)
	r.min, r.max = math.Inf(1), math.Inf(-1)
	for _, rec := range ds {
		if k, ok := r.scale.Field.Key(rec); ok {
			if _, seen := r.categories[k]; !seen {
				r.categories[k] = len(r.categories)
			}
		}
		if v, ok := valueField.Number(rec); ok {
			r.min = math.Min(r.min, v)
			r.max = math.Max(r.max, v)
		}
	}
}

// Color returns the color of the mark at index i drawn from rec.
func (r *Resolver) Color(i int, rec data.Record) string {
	if r.discrete == nil && r.cont == nil {
		return r.fixed
	}

	var pos, levels int
	var frac float64
	switch r.scale.By {
	case chart.ColorByCategory:
		k, _ := r.scale.Field.Key(rec)
		pos, levels = r.categories[k], len(r.categories)
		frac = fraction(pos, levels)
	case chart.ColorByValue:
		v, _ := r.valueField.Number(rec)
		if r.max > r.min {
			frac = (v - r.min) / (r.max - r.min)
		}
		pos = int(frac * float64(max(len(r.discrete)-1, 0)))
	default:
		pos, levels = i, r.n
		frac = fraction(pos, levels)
	}

	if r.cont != nil {
		return Hex(r.cont.Map(frac))
	}
	return Hex(r.discrete[pos%len(r.discrete)])
}

func fraction(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
