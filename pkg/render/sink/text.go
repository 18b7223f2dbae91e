package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/animchart/pkg/join"
	"github.com/matzehuels/animchart/pkg/render"
	"github.com/matzehuels/animchart/pkg/render/variant"
)

// Cell glyphs.
const (
	glyphSolid = '█'
	glyphFaint = '░'
	glyphAxisX = '─'
	glyphAxisY = '│'
	glyphEmpty = ' '
)

// fadeThreshold is the opacity below which a mark is drawn faint.
const fadeThreshold = 0.5

type cell struct {
	r     rune
	color string
}

// Text rasterizes f into cols × rows terminal cells. Each cell samples the
// frame at its center; marks drawn later win. Mark colors are applied with
// lipgloss, so output degrades to plain glyphs on terminals without color.
func Text(f *render.Frame, cols, rows int) string {
	if cols <= 0 || rows <= 0 || f.Width <= 0 || f.Height <= 0 {
		return ""
	}
	grid := make([][]cell, rows)
	for j := range grid {
		grid[j] = make([]cell, cols)
		for i := range grid[j] {
			grid[j][i] = cell{r: glyphEmpty}
		}
	}
	sx, sy := float64(cols)/f.Width, float64(rows)/f.Height
	w, h := f.PlotSize()

	// Axis lines.
	if f.YAxis != nil {
		i := int(math.Floor(f.Margin.Left*sx)) - 1
		for j := int(f.Margin.Top * sy); j < int((f.Margin.Top+h)*sy) && j < rows; j++ {
			if i >= 0 && i < cols {
				grid[j][i] = cell{r: glyphAxisY}
			}
		}
	}
	if f.XAxis != nil {
		j := int(math.Floor((f.Margin.Top + h) * sy))
		if j >= 0 && j < rows {
			for i := int(f.Margin.Left * sx); i < int((f.Margin.Left+w)*sx) && i < cols; i++ {
				grid[j][i] = cell{r: glyphAxisX}
			}
		}
	}

	for j := range grid {
		py := (float64(j)+0.5)/sy - f.Margin.Top
		for i := range grid[j] {
			px := (float64(i)+0.5)/sx - f.Margin.Left
			if m, ok := hit(f, px, py, 0.5/sx); ok {
				r := glyphSolid
				if m.Geometry.Opacity < fadeThreshold || m.State == join.Exiting {
					r = glyphFaint
				}
				grid[j][i] = cell{r: r, color: m.Geometry.Color}
			}
		}
	}

	var sb strings.Builder
	for j, row := range grid {
		if j > 0 {
			sb.WriteByte('\n')
		}
		writeRow(&sb, row)
	}
	return sb.String()
}

// hit returns the topmost mark at (x, y). Vertices are widened to at least
// one cell so thin lines stay visible.
func hit(f *render.Frame, x, y, minRadius float64) (render.Mark, bool) {
	for k := len(f.Marks) - 1; k >= 0; k-- {
		m := f.Marks[k]
		g := m.Geometry
		if f.Shape == variant.ShapeVertex || f.Shape == variant.ShapeCircle {
			g.Radius = math.Max(g.Radius, minRadius)
		}
		if variant.Contains(f.Shape, g, x, y) {
			return m, true
		}
	}
	return render.Mark{}, false
}

// writeRow renders runs of equally colored cells with one style each.
func writeRow(sb *strings.Builder, row []cell) {
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].color == row[start].color {
			continue
		}
		var run strings.Builder
		for _, c := range row[start:i] {
			run.WriteRune(c.r)
		}
		if color := row[start].color; color != "" {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(run.String()))
		} else {
			sb.WriteString(run.String())
		}
		start = i
	}
}
