package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/render/variant"
)

// validateCommand creates the validate command. It normalizes a config,
// prints the resolved settings and, given a dataset, reports the records a
// render would skip.
func (c *CLI) validateCommand() *cobra.Command {
	opts := inputOpts{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a chart configuration and optional dataset",
		Example: `  animchart validate -c bar.toml
  animchart validate -c bar.toml -d sales.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), &opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func runValidate(ctx context.Context, opts *inputOpts) error {
	cfg, ds, err := opts.load(ctx)
	if err != nil {
		return err
	}

	printSuccess("%s is valid", opts.config)
	printConfig(cfg)

	if ds == nil {
		return nil
	}
	adapter, err := variant.For(cfg.ChartType)
	if err != nil {
		return err
	}
	ok, bad := data.Partition(ds, adapter.Requirements(cfg)...)
	printInfo("%d of %d records usable", len(ok), len(ds))
	for _, m := range bad {
		printWarning("%s", m)
	}
	return nil
}

func printConfig(cfg *chart.Config) {
	printKeyValue("chart", string(cfg.ChartType))
	printKeyValue("key", string(cfg.KeyField))
	printKeyValue("x", fmt.Sprintf("%s (%s)", cfg.XField, cfg.XAxis.ScaleKind))
	printKeyValue("y", fmt.Sprintf("%s (%s)", cfg.YField, cfg.YAxis.ScaleKind))
	if cfg.SizeField != "" {
		printKeyValue("size", string(cfg.SizeField))
	}
	printKeyValue("timing", fmt.Sprintf("%s stagger · %s duration · %s", cfg.Stagger(), cfg.Duration(), cfg.Easing))
	printKeyValue("margin", formatMargin(cfg.Margin))
}
