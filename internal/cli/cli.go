// Package cli implements the animchart command-line interface.
//
// The commands drive render.Container from the terminal:
//   - render: render a chart to SVG, PNG or PDF, optionally as animation frames
//   - join: show how a second dataset reconciles against a first
//   - watch: live terminal preview that re-renders on resize
//   - serve: host containers over HTTP
//   - validate: check a chart configuration file
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/animchart/pkg/buildinfo"
	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/data"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "animchart"

	defaultWidth  = 640 // default container width in pixels
	defaultHeight = 400 // default container height in pixels
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "animchart renders datasets as animated charts",
		Long:         `animchart renders tabular datasets as animated bar, line, scatter, bubble, donut and diverging charts, reconciling marks between datasets so that changes animate instead of redraw.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.joinCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Input Helpers
// =============================================================================

// inputOpts holds the flags shared by commands that read a chart.
type inputOpts struct {
	config string // chart config file (toml, yaml, json)
	data   string // dataset file (json, yaml, csv)
	width  float64
	height float64
}

func (o *inputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.config, "config", "c", "", "chart config file (.toml, .yaml, .json)")
	cmd.Flags().StringVarP(&o.data, "data", "d", "", "dataset file (.json, .yaml, .csv)")
	cmd.Flags().Float64Var(&o.width, "width", defaultWidth, "container width")
	cmd.Flags().Float64Var(&o.height, "height", defaultHeight, "container height")
	cmd.MarkFlagRequired("config")
	completeFiles(cmd, "config", configExts...)
	completeFiles(cmd, "data", dataExts...)
}

// load reads and normalizes the chart config and, when a data path is set,
// the dataset.
func (o *inputOpts) load(ctx context.Context) (*chart.Config, data.Dataset, error) {
	cfg, err := loadConfig(ctx, o.config)
	if err != nil {
		return nil, nil, err
	}
	if o.data == "" {
		return cfg, nil, nil
	}
	ds, err := data.ImportFile(o.data)
	if err != nil {
		return nil, nil, err
	}
	return cfg, ds, nil
}

func loadConfig(ctx context.Context, path string) (*chart.Config, error) {
	cfg, err := chart.LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Logger = loggerFromContext(ctx)
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}
