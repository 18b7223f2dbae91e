package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/clock"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/render"
	"github.com/matzehuels/animchart/pkg/render/sink"
)

const (
	frameInterval = time.Second / 30

	// Pixel size of one terminal cell. The container is laid out in pixels
	// and sampled down to cells.
	cellWidth  = 8.0
	cellHeight = 16.0

	headerLines = 1
	footerLines = 1
)

// watchOpts holds options for the watch command.
type watchOpts struct {
	inputOpts
	next []string
}

// watchCommand creates the watch command: a live terminal preview. Resizing
// the terminal goes through the resize debounce, so a drag produces a single
// rebuild once it settles.
func (c *CLI) watchCommand() *cobra.Command {
	opts := watchOpts{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Preview a chart live in the terminal",
		Long: `Preview a chart live in the terminal.

Keys: n next dataset · s settle · q quit. Click a mark to inspect it.`,
		Example: `  animchart watch -c bar.toml -d q1.json --next q2.json --next q3.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), &opts)
		},
	}

	opts.inputOpts.register(cmd)
	cmd.MarkFlagRequired("data")
	cmd.Flags().StringArrayVarP(&opts.next, "next", "n", nil, "additional datasets to cycle through (repeatable)")
	completeFiles(cmd, "next", dataExts...)

	return cmd
}

func runWatch(ctx context.Context, opts *watchOpts) error {
	cfg, ds, err := opts.load(ctx)
	if err != nil {
		return err
	}
	datasets := []data.Dataset{ds}
	for _, path := range opts.next {
		next, err := data.ImportFile(path)
		if err != nil {
			return err
		}
		datasets = append(datasets, next)
	}

	// Render logs would tear the alternate screen.
	cfg.Logger = nil
	m := newWatchModel(ctx, cfg, datasets, clock.Real{})
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if wm, ok := final.(watchModel); ok && wm.err != nil {
		return wm.err
	}
	return nil
}

// =============================================================================
// watchModel
// =============================================================================

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// watchModel is the bubbletea model for the live preview. The container is
// created on the first window size message.
type watchModel struct {
	ctx      context.Context
	cfg      *chart.Config
	datasets []data.Dataset
	current  int
	clock    clock.Clock

	container *render.Container
	cols      int
	rows      int

	report  *render.Report
	clicked string
	err     error
}

func newWatchModel(ctx context.Context, cfg *chart.Config, datasets []data.Dataset, clk clock.Clock) watchModel {
	return watchModel{ctx: ctx, cfg: cfg, datasets: datasets, clock: clk}
}

func (m watchModel) Init() tea.Cmd {
	return tickCmd()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n", " ":
			if m.container != nil && len(m.datasets) > 1 {
				m.current = (m.current + 1) % len(m.datasets)
				m.render()
			}
		case "s":
			if m.container != nil {
				m.container.Settle()
			}
		}

	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = max(msg.Height-headerLines-footerLines, 1)
		width, height := float64(m.cols)*cellWidth, float64(m.rows)*cellHeight
		if m.container == nil {
			m.container = render.NewContainer(width, height, render.WithClock(m.clock))
			m.container.ObserveWidth(width)
			m.render()
			break
		}
		prevWidth, prevHeight := m.container.Size()
		m.container.SetHeight(height)
		// Height changes bypass the debounce, which only tracks width.
		if !m.container.ObserveWidth(width) && width == prevWidth && height != prevHeight {
			m.render()
		}

	case tea.MouseMsg:
		if m.container == nil || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			break
		}
		x := (float64(msg.X) + 0.5) * cellWidth
		y := (float64(msg.Y-headerLines) + 0.5) * cellHeight
		if ev, ok := m.container.Click(x, y); ok {
			m.clicked = fmt.Sprintf("%s %v", ev.Key, ev.Datum)
		} else {
			m.clicked = ""
		}

	case tickMsg:
		if m.container != nil {
			if _, err := m.container.Tick(m.ctx); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, tickCmd()
	}
	return m, nil
}

// render draws the current dataset. A failed render keeps the previous
// frame and shows the error in the footer.
func (m *watchModel) render() {
	report, err := m.container.Render(m.ctx, m.cfg, m.datasets[m.current])
	if err != nil {
		m.clicked = "error: " + err.Error()
		return
	}
	m.report = report
}

func (m watchModel) View() string {
	if m.container == nil {
		return StyleDim.Render("starting…")
	}
	var b strings.Builder

	title := fmt.Sprintf("%s  dataset %d/%d", m.cfg.ChartType, m.current+1, len(m.datasets))
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(sink.Text(m.container.Frame(), m.cols, m.rows))
	b.WriteString("\n")

	status := "n next · s settle · q quit"
	if m.report != nil {
		status = fmt.Sprintf("+%d ~%d -%d · %s", len(m.report.Enter), len(m.report.Update), len(m.report.Exit), status)
	}
	if m.clicked != "" {
		status = m.clicked + " · " + status
	}
	b.WriteString(StyleDim.Render(status))
	return b.String()
}
