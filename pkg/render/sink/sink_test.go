package sink

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/clock"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/join"
	"github.com/matzehuels/animchart/pkg/render"
	"github.com/matzehuels/animchart/pkg/render/variant"
)

func settledFrame(t *testing.T, cfg *chart.Config, ds data.Dataset) *render.Frame {
	t.Helper()
	c := render.NewContainer(400, 200, render.WithClock(clock.NewManual(time.Time{})), render.WithMeasurer(nil))
	if _, err := c.Render(context.Background(), cfg, ds); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	c.Settle()
	return c.Frame()
}

func sales() data.Dataset {
	return data.Dataset{
		{"name": "north", "value": 10},
		{"name": "south & east", "value": 30},
	}
}

func TestSVGBar(t *testing.T) {
	cfg := &chart.Config{ChartType: chart.KindBar, XField: "name", YField: "value", LabelsEnabled: true}
	svg := string(SVG(settledFrame(t, cfg, sales()), WithMarkIDs()))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`fill="white"`,
		`class="axis axis-bottom"`,
		`class="axis axis-left"`,
		`data-key="north"`,
		`south &amp; east`,
		`fill="#3498DB"`,
		`>30</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if n := strings.Count(svg, "<rect class=\"mark"); n != 2 {
		t.Errorf("%d bar rects, want 2", n)
	}
}

func TestSVGLineDrawsPath(t *testing.T) {
	cfg := &chart.Config{ChartType: chart.KindLine, XField: "t", YField: "v"}
	ds := data.Dataset{{"t": 0, "v": 1}, {"t": 1, "v": 3}, {"t": 2, "v": 2}}
	svg := string(SVG(settledFrame(t, cfg, ds)))
	if !strings.Contains(svg, `<path class="line"`) {
		t.Error("line chart has no path")
	}
	if n := strings.Count(svg, "<circle"); n != 3 {
		t.Errorf("%d vertices, want 3", n)
	}
}

func TestSVGDonut(t *testing.T) {
	cfg := &chart.Config{ChartType: chart.KindDonut, XField: "name", YField: "value"}
	svg := string(SVG(settledFrame(t, cfg, sales())))
	if n := strings.Count(svg, `<path class="mark`); n != 2 {
		t.Errorf("%d arcs, want 2", n)
	}
	if strings.Contains(svg, "class=\"axis") {
		t.Error("donut drew axes")
	}
}

func TestArcPath(t *testing.T) {
	tests := []struct {
		name string
		g    join.Geometry
		want string
	}{
		{"empty", join.Geometry{Radius: 10}, ""},
		{"quarter", join.Geometry{X: 0, Y: 0, Radius: 10, EndAngle: math.Pi / 2}, "M0,-10A10,10 0 0 1 10,0L0,0Z"},
		{"ring", join.Geometry{Radius: 10, InnerRadius: 4, EndAngle: math.Pi / 2}, "M0,-10A10,10 0 0 1 10,0L4,0A4,4 0 0 0 0,-4Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := arcPath(tt.g); got != tt.want {
				t.Errorf("arcPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{0: "0", 1.5: "1.5", 2.126: "2.13", -0.001: "0", 100: "100"}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestText(t *testing.T) {
	cfg := &chart.Config{ChartType: chart.KindBar, XField: "name", YField: "value"}
	out := ansi.Strip(Text(settledFrame(t, cfg, sales()), 40, 10))

	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("%d rows, want 10", len(lines))
	}
	if !strings.ContainsRune(out, glyphSolid) {
		t.Errorf("no bar cells in\n%s", out)
	}
	if !strings.ContainsRune(out, glyphAxisX) || !strings.ContainsRune(out, glyphAxisY) {
		t.Errorf("axes missing in\n%s", out)
	}
	// The taller bar reaches higher rows than the shorter one.
	if !strings.ContainsRune(lines[2], glyphSolid) {
		t.Errorf("row 2 has no bar: %q", lines[2])
	}
}

func TestTextEmpty(t *testing.T) {
	if got := Text(&render.Frame{}, 10, 10); got != "" {
		t.Errorf("Text(empty) = %q", got)
	}
	f := &render.Frame{Width: 10, Height: 10, Shape: variant.ShapeRect}
	if got := ansi.Strip(Text(f, 2, 2)); got != "  \n  " {
		t.Errorf("Text(blank) = %q", got)
	}
}
