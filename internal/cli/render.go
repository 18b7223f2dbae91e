package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/animchart/pkg/clock"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/errors"
	"github.com/matzehuels/animchart/pkg/render"
	"github.com/matzehuels/animchart/pkg/render/sink"
)

const (
	defaultFPS   = 30
	defaultScale = 2.0 // PNG resolution multiplier
	maxFrames    = 10000
)

// epoch is the start time of the manual clock used for offline rendering.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// renderOpts holds options for the render command.
type renderOpts struct {
	inputOpts
	output string        // output file; extension picks svg, png or pdf
	then   string        // second dataset rendered after the first settles
	at     time.Duration // snapshot time after the last render
	frames string        // directory for an animation frame sequence
	fps    int
	format string // frame format when --frames is set
	scale  float64
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart to SVG, PNG or PDF",
		Long: `Render a chart configuration and dataset offline.

By default every transition is settled and the final frame is written. Use
--at to snapshot mid-transition, --then to animate from one dataset to
another, and --frames to write the whole animation as a frame sequence.`,
		Example: `  animchart render -c bar.toml -d sales.csv -o sales.svg
  animchart render -c bar.toml -d q1.json --then q2.json --at 150ms -o mid.png
  animchart render -c bar.toml -d q1.json --then q2.json --frames out/ --fps 24`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), &opts)
		},
	}

	opts.inputOpts.register(cmd)
	cmd.MarkFlagRequired("data")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.svg, .png, .pdf); stdout SVG when empty")
	cmd.Flags().StringVar(&opts.then, "then", "", "second dataset to transition to")
	cmd.Flags().DurationVar(&opts.at, "at", 0, "snapshot this long after the last render instead of settling")
	cmd.Flags().StringVar(&opts.frames, "frames", "", "write the animation as a frame sequence to this directory")
	cmd.Flags().IntVar(&opts.fps, "fps", defaultFPS, "frames per second for --frames")
	cmd.Flags().StringVar(&opts.format, "format", "svg", "frame format for --frames: svg, png or pdf")
	cmd.Flags().Float64Var(&opts.scale, "scale", defaultScale, "PNG resolution multiplier")
	completeFiles(cmd, "then", dataExts...)
	completeValues(cmd, "format", frameExts...)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	cfg, ds, err := opts.load(ctx)
	if err != nil {
		return err
	}
	var next data.Dataset
	if opts.then != "" {
		if next, err = data.ImportFile(opts.then); err != nil {
			return err
		}
	}

	clk := clock.NewManual(epoch)
	container := render.NewContainer(opts.width, opts.height,
		render.WithClock(clk),
		render.WithLogger(logger),
	)

	report, err := container.Render(ctx, cfg, ds)
	if err != nil {
		return err
	}
	logger.Debug("rendered", "enter", len(report.Enter), "margin", formatMargin(report.Margin))

	if next != nil {
		if opts.frames == "" {
			container.Settle()
		} else if err := c.writeFrames(ctx, container, clk, opts); err != nil {
			return err
		}
		if report, err = container.Render(ctx, cfg, next); err != nil {
			return err
		}
	}

	if opts.frames != "" {
		if err := c.writeFrames(ctx, container, clk, opts); err != nil {
			return err
		}
		printReport(report)
		return nil
	}

	if opts.at > 0 {
		clk.Advance(opts.at)
		if _, err := container.Tick(ctx); err != nil {
			return err
		}
	} else {
		container.Settle()
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(sink.SVG(container.Frame()))
		return err
	}

	prog := newProgress(logger)
	if err := exportFrame(ctx, container.Frame(), opts.output, opts.scale); err != nil {
		return err
	}
	prog.done("Rendered " + string(report.Kind) + " chart")
	printReport(report)
	printFile(opts.output)
	return nil
}

// writeFrames steps the clock at the frame rate and writes one file per
// frame until the container stops animating. Frame numbering continues
// across calls.
func (c *CLI) writeFrames(ctx context.Context, container *render.Container, clk *clock.Manual, opts *renderOpts) error {
	if opts.fps <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fps must be positive, got %d", opts.fps)
	}
	if err := os.MkdirAll(opts.frames, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create frame directory")
	}
	step := time.Second / time.Duration(opts.fps)

	spinner := newSpinner(ctx, os.Stderr, "writing frames")
	spinner.Start()
	defer spinner.Stop()

	start, _ := filepath.Glob(filepath.Join(opts.frames, "frame-*."+opts.format))
	n := len(start)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if n >= maxFrames {
			return errors.New(errors.ErrCodeInternal, "animation exceeded %d frames", maxFrames)
		}
		path := filepath.Join(opts.frames, fmt.Sprintf("frame-%04d.%s", n, opts.format))
		if err := exportFrame(ctx, container.Frame(), path, opts.scale); err != nil {
			return err
		}
		n++
		spinner.SetMessage("frame %d", n)

		if !container.Animating() {
			break
		}
		clk.Advance(step)
		if _, err := container.Tick(ctx); err != nil {
			return err
		}
	}
	spinner.Stop()
	printSuccess("Wrote %d frames", n-len(start))
	printFile(opts.frames)
	return nil
}

// exportFrame writes f to path in the format named by its extension.
func exportFrame(ctx context.Context, f *render.Frame, path string, scale float64) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	svg := sink.SVG(f)

	var (
		out []byte
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		out = svg
	case ".png":
		out, err = sink.ToPNG(ctx, svg, scale)
	case ".pdf":
		out, err = sink.ToPDF(ctx, svg)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported output format %q (use .svg, .png or .pdf)", ext)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
