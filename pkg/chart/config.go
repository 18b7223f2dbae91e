// Package chart defines the declarative configuration of an animated chart.
//
// A [Config] is immutable for the duration of one render call. It is usually
// loaded from a TOML, YAML or JSON file with [LoadFile], completed with
// [Config.ValidateAndSetDefaults], and handed to a render.Container.
//
//	cfg, err := chart.LoadFile("sales.toml")
//	if err != nil {
//	    return err
//	}
//	report, err := container.Render(ctx, cfg, dataset)
package chart

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMargin is applied to every side of the plot area.
	DefaultMargin = 30.0

	// DefaultTickSize is the length of tick lines in pixels.
	DefaultTickSize = 6.0

	// DefaultTickPadding is the gap between tick line and label.
	DefaultTickPadding = 3.0

	// DefaultTickCount is the maximum number of generated ticks.
	DefaultTickCount = 10

	// DefaultBandPadding is the inner padding fraction of band scales.
	DefaultBandPadding = 0.5

	// DefaultBandOuterPadding is the outer padding fraction of band scales.
	DefaultBandOuterPadding = 0.0

	// DefaultBarColor is the fixed mark color.
	DefaultBarColor = "#3498DB"

	// DefaultBackground is the chart background.
	DefaultBackground = "white"

	// DefaultStaggerMs is the per-index transition delay.
	DefaultStaggerMs = 100

	// DefaultDurationMs is the mark transition duration.
	DefaultDurationMs = 300

	// DefaultEasing is the mark transition easing.
	DefaultEasing = "cubic-in-out"
)

// AxisDurationMs caps the duration of axis tick transitions.
const AxisDurationMs = 250

// =============================================================================
// Config
// =============================================================================

// Margin is the space reserved around the plot area.
type Margin struct {
	Top    float64 `json:"top" toml:"top" yaml:"top"`
	Right  float64 `json:"right" toml:"right" yaml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" toml:"left" yaml:"left"`
}

// IsZero reports whether no side was configured.
func (m Margin) IsZero() bool { return m == Margin{} }

// AxisConfig configures one axis and the scale behind it.
type AxisConfig struct {
	ScaleKind   ScaleKind   `json:"scale_kind,omitempty" toml:"scale_kind" yaml:"scale_kind,omitempty"`
	Orientation Orientation `json:"orientation,omitempty" toml:"orientation" yaml:"orientation,omitempty"`
	TickCount   int         `json:"tick_count,omitempty" toml:"tick_count" yaml:"tick_count,omitempty"`
	TickSize    float64     `json:"tick_size,omitempty" toml:"tick_size" yaml:"tick_size,omitempty"`
	TickPadding float64     `json:"tick_padding,omitempty" toml:"tick_padding" yaml:"tick_padding,omitempty"`
	TickFormat  string      `json:"tick_format,omitempty" toml:"tick_format" yaml:"tick_format,omitempty"` // printf pattern, e.g. "%.0f%%"
	TickValues  []any       `json:"tick_values,omitempty" toml:"tick_values" yaml:"tick_values,omitempty"`

	BandPadding      *float64 `json:"band_padding,omitempty" toml:"band_padding" yaml:"band_padding,omitempty"`
	BandOuterPadding *float64 `json:"band_outer_padding,omitempty" toml:"band_outer_padding" yaml:"band_outer_padding,omitempty"`

	// Domain overrides the derived [min, max] of a continuous scale.
	Domain []float64 `json:"domain,omitempty" toml:"domain" yaml:"domain,omitempty"`
	// ZeroBased anchors a derived continuous domain at zero.
	ZeroBased *bool `json:"zero_based,omitempty" toml:"zero_based" yaml:"zero_based,omitempty"`
	// RoundBands snaps band positions to whole pixels.
	RoundBands bool `json:"round_bands,omitempty" toml:"round_bands" yaml:"round_bands,omitempty"`

	ShowAxis       *bool `json:"show_axis,omitempty" toml:"show_axis" yaml:"show_axis,omitempty"`
	DynamicMargin  *bool `json:"dynamic_margin,omitempty" toml:"dynamic_margin" yaml:"dynamic_margin,omitempty"` // grow margin.left to fit labels
	WrapLabels     *bool `json:"wrap_labels,omitempty" toml:"wrap_labels" yaml:"wrap_labels,omitempty"`
	FullWidthTicks bool  `json:"full_width_ticks,omitempty" toml:"full_width_ticks" yaml:"full_width_ticks,omitempty"` // grid lines across the plot

	// Formatter overrides TickFormat when set programmatically.
	Formatter func(float64) string `json:"-" toml:"-" yaml:"-"`
}

// Visible reports whether the axis is drawn.
func (a AxisConfig) Visible() bool { return a.ShowAxis == nil || *a.ShowAxis }

// Padding returns the inner and outer band padding.
func (a AxisConfig) Padding() (inner, outer float64) {
	inner, outer = DefaultBandPadding, DefaultBandOuterPadding
	if a.BandPadding != nil {
		inner = *a.BandPadding
	}
	if a.BandOuterPadding != nil {
		outer = *a.BandOuterPadding
	}
	return inner, outer
}

// FitsMargin reports whether dynamic margin sizing is enabled.
func (a AxisConfig) FitsMargin() bool { return a.DynamicMargin != nil && *a.DynamicMargin }

// IncludesZero reports whether a derived continuous domain includes zero.
func (a AxisConfig) IncludesZero() bool { return a.ZeroBased == nil || *a.ZeroBased }

// Wraps reports whether long categorical labels are wrapped.
func (a AxisConfig) Wraps() bool { return a.WrapLabels != nil && *a.WrapLabels }

// ColorKey selects what a color scale is keyed by.
type ColorKey string

// Color scale keys.
const (
	ColorByIndex    ColorKey = "index"
	ColorByCategory ColorKey = "category"
	ColorByValue    ColorKey = "value"
)

// ColorScale colors marks from a palette instead of a fixed color.
type ColorScale struct {
	Palette string        `json:"palette,omitempty" toml:"palette" yaml:"palette,omitempty"` // e.g. "Set1", "Paired", "viridis"
	By      ColorKey      `json:"by,omitempty" toml:"by" yaml:"by,omitempty"`
	Field   data.Selector `json:"field,omitempty" toml:"field" yaml:"field,omitempty"` // category field, defaults to the x field
}

// MarkEvent is delivered to OnMarkClick.
type MarkEvent struct {
	Key   string
	Index int
	Datum data.Record
}

// Config is the full declarative description of one chart.
type Config struct {
	ChartType Kind          `json:"chart_type" toml:"chart_type" yaml:"chart_type"`
	XField    data.Selector `json:"x_field" toml:"x_field" yaml:"x_field"`
	YField    data.Selector `json:"y_field" toml:"y_field" yaml:"y_field"`
	KeyField  data.Selector `json:"key_field,omitempty" toml:"key_field" yaml:"key_field,omitempty"`   // identity field; defaults per kind
	SizeField data.Selector `json:"size_field,omitempty" toml:"size_field" yaml:"size_field,omitempty"` // bubble radius

	Margin Margin     `json:"margin" toml:"margin" yaml:"margin"`
	XAxis  AxisConfig `json:"x_axis" toml:"x_axis" yaml:"x_axis"`
	YAxis  AxisConfig `json:"y_axis" toml:"y_axis" yaml:"y_axis"`

	BarColor        string     `json:"bar_color,omitempty" toml:"bar_color" yaml:"bar_color,omitempty"`
	ColorScale      ColorScale `json:"color_scale" toml:"color_scale" yaml:"color_scale,omitempty"`
	BackgroundColor string     `json:"background_color,omitempty" toml:"background_color" yaml:"background_color,omitempty"`

	// Timing. Zero selects the default; a negative value disables the delay
	// or animation.
	StaggerMs  int    `json:"stagger_ms,omitempty" toml:"stagger_ms" yaml:"stagger_ms,omitempty"`
	DurationMs int    `json:"duration_ms,omitempty" toml:"duration_ms" yaml:"duration_ms,omitempty"`
	Easing     string `json:"easing,omitempty" toml:"easing" yaml:"easing,omitempty"`

	LabelsEnabled bool   `json:"labels_enabled,omitempty" toml:"labels_enabled" yaml:"labels_enabled,omitempty"`
	LabelFormat   string `json:"label_format,omitempty" toml:"label_format" yaml:"label_format,omitempty"`

	// Runtime options (not serialized)
	OnMarkClick func(MarkEvent) `json:"-" toml:"-" yaml:"-"`
	Logger      *log.Logger     `json:"-" toml:"-" yaml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// =============================================================================
// Config Methods
// =============================================================================

// ValidateAndSetDefaults normalizes aliases, applies defaults and validates
// the configuration. This method is idempotent. Errors are configuration
// errors (see errors.IsConfiguration).
func (c *Config) ValidateAndSetDefaults() error {
	if c.validated {
		return nil
	}
	kind, err := ParseKind(string(c.ChartType))
	if err != nil {
		return err
	}
	c.ChartType = kind
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return err
	}
	c.validated = true
	return nil
}

// SetDefaults fills unset fields. ChartType must already be canonical.
func (c *Config) SetDefaults() {
	if c.Margin.IsZero() {
		c.Margin = Margin{DefaultMargin, DefaultMargin, DefaultMargin, DefaultMargin}
	}
	if c.KeyField == "" && c.ChartType.Categorical() {
		c.KeyField = c.CategoryField()
	}
	if c.SizeField == "" && c.ChartType == KindBubble {
		c.SizeField = c.YField
	}
	if c.BarColor == "" {
		c.BarColor = DefaultBarColor
	}
	if c.BackgroundColor == "" {
		c.BackgroundColor = DefaultBackground
	}
	if c.ColorScale.Palette != "" {
		if c.ColorScale.By == "" {
			c.ColorScale.By = ColorByIndex
		}
		if c.ColorScale.Field == "" {
			c.ColorScale.Field = c.CategoryField()
		}
	}
	if c.StaggerMs == 0 {
		c.StaggerMs = DefaultStaggerMs
	}
	if c.DurationMs == 0 {
		c.DurationMs = DefaultDurationMs
	}
	if c.Easing == "" {
		c.Easing = DefaultEasing
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	xKind, yKind := ScaleBand, ScaleLinear
	switch c.ChartType {
	case KindHorizontalBar:
		xKind, yKind = ScaleLinear, ScaleBand
	case KindLine, KindScatter:
		xKind = ScaleLinear
	}
	setAxisDefaults(&c.XAxis, xKind, OrientBottom)
	setAxisDefaults(&c.YAxis, yKind, OrientLeft)

	if c.YAxis.DynamicMargin == nil {
		c.YAxis.DynamicMargin = boolPtr(c.ChartType.HasAxes())
	}
	if c.XAxis.ZeroBased == nil && c.ChartType == KindLine {
		c.XAxis.ZeroBased = boolPtr(false)
	}
	if c.XAxis.WrapLabels == nil {
		c.XAxis.WrapLabels = boolPtr(c.XAxis.ScaleKind == ScaleBand)
	}
}

func setAxisDefaults(a *AxisConfig, kind ScaleKind, orient Orientation) {
	if a.ScaleKind == "" {
		a.ScaleKind = kind
	}
	if a.Orientation == "" {
		a.Orientation = orient
	}
	if a.TickCount == 0 {
		a.TickCount = DefaultTickCount
	}
	if a.TickSize == 0 {
		a.TickSize = DefaultTickSize
	}
	if a.TickPadding == 0 {
		a.TickPadding = DefaultTickPadding
	}
}

func boolPtr(b bool) *bool { return &b }

// Validate checks field values. It does not apply defaults.
func (c *Config) Validate() error {
	if _, err := ParseKind(string(c.ChartType)); err != nil {
		return err
	}
	if err := errors.ValidateFieldName(string(c.XField)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "x_field")
	}
	if err := errors.ValidateFieldName(string(c.YField)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "y_field")
	}
	if err := validateAxis("x_axis", &c.XAxis); err != nil {
		return err
	}
	if err := validateAxis("y_axis", &c.YAxis); err != nil {
		return err
	}
	if c.XAxis.ScaleKind == ScaleBand && c.YAxis.ScaleKind == ScaleBand {
		return errors.New(errors.ErrCodeInvalidConfig, "x_axis and y_axis cannot both be band scales")
	}
	if c.Margin.Left < 0 || c.Margin.Right < 0 || c.Margin.Top < 0 || c.Margin.Bottom < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margin cannot be negative")
	}
	if err := errors.ValidateNumberFormat(c.LabelFormat); err != nil {
		return err
	}
	switch c.ColorScale.By {
	case "", ColorByIndex, ColorByCategory, ColorByValue:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid color_scale.by: %q (must be one of: index, category, value)", c.ColorScale.By)
	}
	return nil
}

func validateAxis(name string, a *AxisConfig) error {
	kind, err := ParseScaleKind(string(a.ScaleKind))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScaleKind, err, "%s", name)
	}
	a.ScaleKind = kind
	if !ValidOrientations[a.Orientation] {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: invalid orientation: %q", name, a.Orientation)
	}
	if a.TickCount < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: tick_count cannot be negative", name)
	}
	if err := errors.ValidateNumberFormat(a.TickFormat); err != nil {
		return err
	}
	inner, outer := a.Padding()
	if inner < 0 || inner >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: band_padding must be in [0, 1)", name)
	}
	if outer < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: band_outer_padding cannot be negative", name)
	}
	if a.Domain != nil && (len(a.Domain) != 2 || a.Domain[0] >= a.Domain[1]) {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: domain must be [min, max] with min < max", name)
	}
	return nil
}

// CategoryField is the field holding category keys: the y field of a
// horizontal bar chart, the x field otherwise.
func (c *Config) CategoryField() data.Selector {
	if c.ChartType == KindHorizontalBar {
		return c.YField
	}
	return c.XField
}

// ValueField is the field holding mark values.
func (c *Config) ValueField() data.Selector {
	if c.ChartType == KindHorizontalBar {
		return c.XField
	}
	return c.YField
}

// Stagger returns the per-index transition delay.
func (c *Config) Stagger() time.Duration { return millis(c.StaggerMs) }

// Duration returns the mark transition duration.
func (c *Config) Duration() time.Duration { return millis(c.DurationMs) }

// AxisDuration returns the axis transition duration, never longer than the
// mark transitions.
func (c *Config) AxisDuration() time.Duration {
	return min(AxisDurationMs*time.Millisecond, c.Duration())
}

func millis(ms int) time.Duration {
	if ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// Clone returns a copy safe to mutate. Slices and pointers shared with c
// are copied so a later render cannot observe edits to the original.
func (c *Config) Clone() *Config {
	cp := *c
	cp.XAxis = c.XAxis.clone()
	cp.YAxis = c.YAxis.clone()
	return &cp
}

func (a AxisConfig) clone() AxisConfig {
	cp := a
	cp.TickValues = append([]any(nil), a.TickValues...)
	cp.Domain = append([]float64(nil), a.Domain...)
	cp.BandPadding = clonePtr(a.BandPadding)
	cp.BandOuterPadding = clonePtr(a.BandOuterPadding)
	cp.ShowAxis = clonePtr(a.ShowAxis)
	cp.DynamicMargin = clonePtr(a.DynamicMargin)
	cp.WrapLabels = clonePtr(a.WrapLabels)
	cp.ZeroBased = clonePtr(a.ZeroBased)
	return cp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
