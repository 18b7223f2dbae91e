package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/render"
	"github.com/matzehuels/animchart/pkg/scale"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - entering marks, success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - exiting marks, errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleEnter  = lipgloss.NewStyle().Foreground(colorGreen)
	styleUpdate = lipgloss.NewStyle().Foreground(colorCyan)
	styleExit   = lipgloss.NewStyle().Foreground(colorRed)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Render Reports
// =============================================================================

// printReport prints the one-line summary of a render followed by any
// skipped records and duplicate keys.
func printReport(r *render.Report) {
	parts := []string{
		string(r.Kind),
		styleEnter.Render(fmt.Sprintf("+%d", len(r.Enter))),
		styleUpdate.Render(fmt.Sprintf("~%d", len(r.Update))),
		styleExit.Render(fmt.Sprintf("-%d", len(r.Exit))),
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
	for _, m := range r.Malformed {
		printWarning("skipped %s", m)
	}
	if len(r.Duplicates) > 0 {
		printWarning("duplicate keys: %s", strings.Join(r.Duplicates, ", "))
	}
}

// printLayout prints the resolved domains and margin of a render.
func printLayout(r *render.Report) {
	printKeyValue("x domain", formatDomain(r.XDomain))
	printKeyValue("y domain", formatDomain(r.YDomain))
	printKeyValue("margin", formatMargin(r.Margin))
}

// joinTable lays out the keys of a render in enter, update and exit columns.
func joinTable(r *render.Report) *table.Table {
	rows := max(len(r.Enter), len(r.Update), len(r.Exit))
	cell := func(keys []string, i int) string {
		if i < len(keys) {
			return keys[i]
		}
		return ""
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("enter", "update", "exit").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(colorGray)
			}
			switch col {
			case 0:
				return s.Foreground(colorGreen)
			case 1:
				return s.Foreground(colorCyan)
			default:
				return s.Foreground(colorRed)
			}
		})
	for i := 0; i < rows; i++ {
		t.Row(cell(r.Enter, i), cell(r.Update, i), cell(r.Exit, i))
	}
	return t
}

func formatDomain(d scale.Domain) string {
	if d.Empty() {
		return "(empty)"
	}
	if d.Kind == chart.ScaleBand {
		return fmt.Sprintf("%d bands", len(d.Keys))
	}
	return "[" + strconv.FormatFloat(d.Min, 'g', 6, 64) + ", " + strconv.FormatFloat(d.Max, 'g', 6, 64) + "]"
}

func formatMargin(m chart.Margin) string {
	return fmt.Sprintf("top %g · right %g · bottom %g · left %g", m.Top, m.Right, m.Bottom, m.Left)
}
