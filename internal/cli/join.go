package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/animchart/pkg/clock"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/render"
)

// joinOpts holds options for the join command.
type joinOpts struct {
	inputOpts
	next string
}

// joinCommand creates the join command, which previews how marks reconcile
// between two datasets without drawing anything.
func (c *CLI) joinCommand() *cobra.Command {
	opts := joinOpts{}

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Show which marks enter, update and exit between two datasets",
		Example: `  animchart join -c bar.toml -d q1.json -n q2.json
  animchart join -c bar.toml -d q1.json   # everything enters`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runJoin(cmd.Context(), &opts)
		},
	}

	opts.inputOpts.register(cmd)
	cmd.MarkFlagRequired("data")
	cmd.Flags().StringVarP(&opts.next, "next", "n", "", "dataset to reconcile against the first")
	completeFiles(cmd, "next", dataExts...)

	return cmd
}

func (c *CLI) runJoin(ctx context.Context, opts *joinOpts) error {
	report, err := reconcileFiles(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(fmt.Sprintf("%s chart", report.Kind)))
	fmt.Println(joinTable(report).Render())
	printReport(report)
	printLayout(report)
	return nil
}

// reconcileFiles renders the first dataset, settles it and renders the
// second, returning the second report. Without a second dataset the first
// report is returned.
func reconcileFiles(ctx context.Context, opts *joinOpts) (*render.Report, error) {
	cfg, ds, err := opts.load(ctx)
	if err != nil {
		return nil, err
	}
	container := render.NewContainer(opts.width, opts.height,
		render.WithClock(clock.NewManual(epoch)),
		render.WithLogger(loggerFromContext(ctx)),
	)
	report, err := container.Render(ctx, cfg, ds)
	if err != nil || opts.next == "" {
		return report, err
	}

	next, err := data.ImportFile(opts.next)
	if err != nil {
		return nil, err
	}
	container.Settle()
	return container.Render(ctx, cfg, next)
}
