package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/fonts"
	"github.com/matzehuels/animchart/pkg/join"
	"github.com/matzehuels/animchart/pkg/render"
	"github.com/matzehuels/animchart/pkg/render/variant"
)

const (
	defaultFontSize  = 11.0
	defaultAxisColor = "#333333"
	lineStrokeWidth  = 2.0
	lineHeightEm     = 1.1
)

// SVGOption configures SVG output.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fontFamily string
	fontSize   float64
	axisColor  string
	markIDs    bool
}

func WithFontFamily(f string) SVGOption { return func(r *svgRenderer) { r.fontFamily = f } }
func WithFontSize(s float64) SVGOption  { return func(r *svgRenderer) { r.fontSize = s } }
func WithAxisColor(c string) SVGOption  { return func(r *svgRenderer) { r.axisColor = c } }

// WithMarkIDs adds a data-key attribute to every mark for scripting.
func WithMarkIDs() SVGOption { return func(r *svgRenderer) { r.markIDs = true } }

// SVG renders f as a standalone SVG document.
func SVG(f *render.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{fontFamily: fonts.FontFamily, fontSize: defaultFontSize, axisColor: defaultAxisColor}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s" font-size="%.1f">`+"\n",
		f.Width, f.Height, f.Width, f.Height, EscapeXML(r.fontFamily), r.fontSize)
	if f.Background != "" {
		fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", EscapeXML(f.Background))
	}

	fmt.Fprintf(&buf, `  <g class="plot" transform="translate(%s,%s)">`+"\n", num(f.Margin.Left), num(f.Margin.Top))
	w, h := f.PlotSize()
	r.renderAxis(&buf, f.XAxis, w, h)
	r.renderAxis(&buf, f.YAxis, w, h)
	r.renderMarks(&buf, f)
	if f.LabelsEnabled {
		r.renderLabels(&buf, f)
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// =============================================================================
// Axes
// =============================================================================

func (r *svgRenderer) renderAxis(buf *bytes.Buffer, a *render.Axis, w, h float64) {
	if a == nil {
		return
	}
	var origin string
	switch a.Orientation {
	case chart.OrientBottom:
		origin = fmt.Sprintf("0,%s", num(h))
	case chart.OrientRight:
		origin = fmt.Sprintf("%s,0", num(w))
	default:
		origin = "0,0"
	}
	fmt.Fprintf(buf, `    <g class="axis axis-%s" transform="translate(%s)" stroke="%s">`+"\n", a.Orientation, origin, EscapeXML(r.axisColor))

	horizontal := a.Orientation.Horizontal()
	if horizontal {
		fmt.Fprintf(buf, `      <line class="domain" x2="%s"/>`+"\n", num(w))
	} else {
		fmt.Fprintf(buf, `      <line class="domain" y2="%s"/>`+"\n", num(h))
	}

	// Ticks point away from the plot; full-width ticks span it instead.
	dir := 1.0
	if a.Orientation == chart.OrientTop || a.Orientation == chart.OrientLeft {
		dir = -1
	}
	size := a.TickSize * dir
	if a.FullWidth {
		size = -dir * h
		if !horizontal {
			size = -dir * w
		}
	}
	offset := (a.TickSize + a.TickPadding) * dir

	for _, t := range a.Ticks {
		lines := t.Lines
		if len(lines) == 0 {
			lines = []string{t.Label}
		}
		if horizontal {
			fmt.Fprintf(buf, `      <g class="tick" opacity="%s" transform="translate(%s,0)">`+"\n", num(t.Opacity), num(t.Position))
			fmt.Fprintf(buf, `        <line y2="%s"/>`+"\n", num(size))
			dy := "0.71em"
			if dir < 0 {
				dy = "0em"
			}
			fmt.Fprintf(buf, `        <text stroke="none" fill="%s" y="%s" dy="%s" text-anchor="middle">`, EscapeXML(r.axisColor), num(offset), dy)
			writeLines(buf, lines)
		} else {
			anchor := "start"
			if dir < 0 {
				anchor = "end"
			}
			fmt.Fprintf(buf, `      <g class="tick" opacity="%s" transform="translate(0,%s)">`+"\n", num(t.Opacity), num(t.Position))
			fmt.Fprintf(buf, `        <line x2="%s"/>`+"\n", num(size))
			fmt.Fprintf(buf, `        <text stroke="none" fill="%s" x="%s" dy="0.32em" text-anchor="%s">`, EscapeXML(r.axisColor), num(offset), anchor)
			writeLines(buf, lines)
		}
		buf.WriteString("</text>\n      </g>\n")
	}
	buf.WriteString("    </g>\n")
}

func writeLines(buf *bytes.Buffer, lines []string) {
	if len(lines) == 1 {
		buf.WriteString(EscapeXML(lines[0]))
		return
	}
	for i, l := range lines {
		dy := fmt.Sprintf("%gem", lineHeightEm)
		if i == 0 {
			dy = "0"
		}
		fmt.Fprintf(buf, `<tspan x="0" dy="%s">%s</tspan>`, dy, EscapeXML(l))
	}
}

// =============================================================================
// Marks
// =============================================================================

func (r *svgRenderer) renderMarks(buf *bytes.Buffer, f *render.Frame) {
	buf.WriteString(`    <g class="marks">` + "\n")
	if f.Shape == variant.ShapeVertex {
		renderPath(buf, f.Marks)
	}
	for _, m := range f.Marks {
		g := m.Geometry
		attrs := r.markAttrs(m)
		switch f.Shape {
		case variant.ShapeRect:
			fmt.Fprintf(buf, `      <rect%s x="%s" y="%s" width="%s" height="%s"/>`+"\n",
				attrs, num(g.X), num(g.Y), num(math.Max(g.Width, 0)), num(math.Max(g.Height, 0)))
		case variant.ShapeCircle, variant.ShapeVertex:
			fmt.Fprintf(buf, `      <circle%s cx="%s" cy="%s" r="%s"/>`+"\n", attrs, num(g.X), num(g.Y), num(math.Max(g.Radius, 0)))
		case variant.ShapeArc:
			if d := arcPath(g); d != "" {
				fmt.Fprintf(buf, `      <path%s d="%s"/>`+"\n", attrs, d)
			}
		}
	}
	buf.WriteString("    </g>\n")
}

func (r *svgRenderer) markAttrs(m render.Mark) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, ` class="mark %s" fill="%s" opacity="%s"`, m.State, EscapeXML(m.Geometry.Color), num(m.Geometry.Opacity))
	if r.markIDs {
		fmt.Fprintf(&sb, ` data-key="%s"`, EscapeXML(m.Key))
	}
	return sb.String()
}

// renderPath joins the vertices of marks that are not leaving, in dataset
// order.
func renderPath(buf *bytes.Buffer, marks []render.Mark) {
	live := make([]render.Mark, 0, len(marks))
	for _, m := range marks {
		if m.State != join.Exiting {
			live = append(live, m)
		}
	}
	if len(live) < 2 {
		return
	}
	slices.SortStableFunc(live, func(a, b render.Mark) int { return a.Index - b.Index })

	var d strings.Builder
	for i, m := range live {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&d, "%s%s,%s", cmd, num(m.Geometry.X), num(m.Geometry.Y))
	}
	fmt.Fprintf(buf, `      <path class="line" fill="none" stroke="%s" stroke-width="%s" d="%s"/>`+"\n",
		EscapeXML(live[0].Geometry.Color), num(lineStrokeWidth), d.String())
}

// arcPath returns the outline of an annular sector. Angles run clockwise
// from twelve o'clock.
func arcPath(g join.Geometry) string {
	sweep := g.EndAngle - g.StartAngle
	if sweep <= 0 || g.Radius <= 0 {
		return ""
	}
	// A closed ring cannot be drawn with one arc command.
	sweep = math.Min(sweep, 2*math.Pi-1e-6)
	end := g.StartAngle + sweep
	large := 0
	if sweep > math.Pi {
		large = 1
	}
	point := func(radius, a float64) string {
		return num(g.X+radius*math.Sin(a)) + "," + num(g.Y-radius*math.Cos(a))
	}
	var d strings.Builder
	fmt.Fprintf(&d, "M%sA%s,%s 0 %d 1 %s", point(g.Radius, g.StartAngle), num(g.Radius), num(g.Radius), large, point(g.Radius, end))
	if g.InnerRadius > 0 {
		fmt.Fprintf(&d, "L%sA%s,%s 0 %d 0 %s", point(g.InnerRadius, end), num(g.InnerRadius), num(g.InnerRadius), large, point(g.InnerRadius, g.StartAngle))
	} else {
		fmt.Fprintf(&d, "L%s,%s", num(g.X), num(g.Y))
	}
	d.WriteString("Z")
	return d.String()
}

// =============================================================================
// Labels
// =============================================================================

func (r *svgRenderer) renderLabels(buf *bytes.Buffer, f *render.Frame) {
	buf.WriteString(`    <g class="labels" text-anchor="middle">` + "\n")
	for _, m := range f.Marks {
		if m.Label == "" {
			continue
		}
		x, y := labelAnchor(f.Shape, m.Geometry)
		fmt.Fprintf(buf, `      <text x="%s" y="%s" opacity="%s">%s</text>`+"\n", num(x), num(y), num(m.Geometry.Opacity), EscapeXML(m.Label))
	}
	buf.WriteString("    </g>\n")
}

func labelAnchor(shape variant.Shape, g join.Geometry) (x, y float64) {
	switch shape {
	case variant.ShapeRect:
		return g.X + g.Width/2, g.Y - variant.LabelOffset
	case variant.ShapeArc:
		mid := (g.StartAngle + g.EndAngle) / 2
		r := (g.Radius + g.InnerRadius) / 2
		return g.X + r*math.Sin(mid), g.Y - r*math.Cos(mid)
	default:
		return g.X, g.Y - g.Radius - variant.LabelOffset
	}
}

// =============================================================================
// Helpers
// =============================================================================

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
