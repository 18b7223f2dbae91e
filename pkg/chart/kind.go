package chart

import (
	"sort"
	"strings"

	"github.com/matzehuels/animchart/pkg/errors"
)

// Kind identifies a chart variant. The set is closed: every Kind has exactly
// one adapter registered in the render/variant package.
type Kind string

// Chart kinds.
const (
	KindBar           Kind = "bar"
	KindHorizontalBar Kind = "hbar"
	KindLine          Kind = "line"
	KindScatter       Kind = "scatter"
	KindBubble        Kind = "bubble"
	KindDonut         Kind = "donut"
	KindDiverging     Kind = "diverging"
)

// kindAliases maps accepted spellings, including the directive names used
// by older dashboards, to their Kind.
var kindAliases = map[string]Kind{
	"bar":                KindBar,
	"vbar":               KindBar,
	"barchartvertical":   KindBar,
	"hbar":               KindHorizontalBar,
	"barcharthorizontal": KindHorizontalBar,
	"line":               KindLine,
	"linechart":          KindLine,
	"scatter":            KindScatter,
	"scatterplot":        KindScatter,
	"bubble":             KindBubble,
	"bubblechart":        KindBubble,
	"donut":              KindDonut,
	"donutchart":         KindDonut,
	"diverging":          KindDiverging,
	"demobarchart":       KindDiverging,
}

// ParseKind resolves a chart type name. Matching is case-insensitive.
func ParseKind(name string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return "", errors.New(errors.ErrCodeInvalidChartType,
		"invalid chart type: %q (must be one of: %s)", name, strings.Join(kindNames(), ", "))
}

// Kinds returns every chart kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindBar, KindHorizontalBar, KindLine, KindScatter, KindBubble, KindDonut, KindDiverging}
}

func kindNames() []string {
	names := make([]string, 0, 7)
	for _, k := range Kinds() {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

// Categorical reports whether marks are identified by their category
// rather than by their position in the dataset.
func (k Kind) Categorical() bool {
	switch k {
	case KindBar, KindHorizontalBar, KindBubble, KindDiverging, KindDonut:
		return true
	}
	return false
}

// HasAxes reports whether the variant draws cartesian axes.
func (k Kind) HasAxes() bool { return k != KindDonut }

// ScaleKind selects how an axis maps domain values to pixels.
type ScaleKind string

// Scale kinds.
const (
	ScaleLinear ScaleKind = "linear"
	ScaleBand   ScaleKind = "band"
)

// ParseScaleKind resolves a scale kind name.
func ParseScaleKind(name string) (ScaleKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear", "continuous":
		return ScaleLinear, nil
	case "band", "ordinal", "ordinal-banded":
		return ScaleBand, nil
	}
	return "", errors.New(errors.ErrCodeInvalidScaleKind,
		"invalid scale kind: %q (must be one of: linear, band)", name)
}

// Orientation is the side of the plot an axis is drawn on.
type Orientation string

// Axis orientations.
const (
	OrientBottom Orientation = "bottom"
	OrientTop    Orientation = "top"
	OrientLeft   Orientation = "left"
	OrientRight  Orientation = "right"
)

// ValidOrientations is the set of supported axis orientations.
var ValidOrientations = map[Orientation]bool{
	OrientBottom: true,
	OrientTop:    true,
	OrientLeft:   true,
	OrientRight:  true,
}

// Horizontal reports whether ticks run along the x direction.
func (o Orientation) Horizontal() bool { return o == OrientBottom || o == OrientTop }
