package render

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/animchart/pkg/axis"
	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/clock"
	"github.com/matzehuels/animchart/pkg/colors"
	"github.com/matzehuels/animchart/pkg/data"
	"github.com/matzehuels/animchart/pkg/errors"
	"github.com/matzehuels/animchart/pkg/fonts"
	"github.com/matzehuels/animchart/pkg/join"
	"github.com/matzehuels/animchart/pkg/observability"
	"github.com/matzehuels/animchart/pkg/render/variant"
	"github.com/matzehuels/animchart/pkg/resize"
	"github.com/matzehuels/animchart/pkg/scale"
	"github.com/matzehuels/animchart/pkg/transition"
)

// Task ID prefixes. Groups with different prefixes never interrupt each
// other.
const (
	markTasks  = "mark/"
	xTickTasks = "xtick/"
	yTickTasks = "ytick/"
)

// Option configures a Container.
type Option func(*Container)

// WithClock sets the time source. The default is the wall clock.
func WithClock(clk clock.Clock) Option {
	return func(c *Container) { c.clock = clk }
}

// WithLogger sets the logger used when a config carries none.
func WithLogger(l *log.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// WithMeasurer sets the text-measurement collaborator used for dynamic
// margins. Passing nil disables measurement.
func WithMeasurer(m axis.Measurer) Option {
	return func(c *Container) { c.measurer = m }
}

// WithResizeWindow sets the resize debounce window.
func WithResizeWindow(d time.Duration) Option {
	return func(c *Container) { c.resizeWindow = d }
}

// WithID sets the container identifier. The default is a random UUID.
func WithID(id string) Option {
	return func(c *Container) { c.id = id }
}

// Container is the state of one chart instance. It is not safe for
// concurrent use; a Host serializes access for concurrent callers.
type Container struct {
	id            string
	width, height float64
	left          float64 // grown left margin, never decreases

	clock        clock.Clock
	logger       *log.Logger
	measurer     axis.Measurer
	resizeWindow time.Duration

	cfg     *chart.Config
	ds      data.Dataset
	adapter variant.Adapter
	margin  chart.Margin
	x, y    scale.Scale
	xAxis   *axis.Spec
	yAxis   *axis.Spec

	marks  *join.Set
	xTicks *join.Set
	yTicks *join.Set
	sched  *transition.Scheduler
	resize *resize.Controller
}

// NewContainer returns an empty container of the given size.
func NewContainer(width, height float64, opts ...Option) *Container {
	c := &Container{
		width:    width,
		height:   height,
		clock:    clock.Real{},
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		measurer: fonts.NewMeasurer(fonts.Regular, axis.DefaultFontSize),
		marks:    join.NewSet(),
		xTicks:   join.NewSet(),
		yTicks:   join.NewSet(),
		sched:    transition.NewScheduler(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	c.resize = resize.New(c.clock, resize.WithWindow(c.resizeWindow))
	return c
}

// ID returns the container identifier.
func (c *Container) ID() string { return c.id }

// Size returns the container size.
func (c *Container) Size() (width, height float64) { return c.width, c.height }

// Margin returns the margin of the last render.
func (c *Container) Margin() chart.Margin { return c.margin }

// Bindings returns the mark bindings in draw order.
func (c *Container) Bindings() []*join.Binding { return c.marks.Bindings() }

// Config returns the normalized config of the last render, or nil.
func (c *Container) Config() *chart.Config { return c.cfg }

// Animating reports whether transitions are running.
func (c *Container) Animating() bool { return c.sched.Active() > 0 }

// Deadline returns when the container next needs a Tick: the end of the
// running transitions or a pending resize, whichever is later.
func (c *Container) Deadline() (time.Time, bool) {
	end, running := c.sched.Deadline()
	if at, pending := c.resize.Deadline(); pending && (!running || at.After(end)) {
		return at, true
	}
	return end, running
}

// Report summarizes one render.
type Report struct {
	Container  string
	Kind       chart.Kind
	Enter      []string
	Update     []string
	Exit       []string
	Duplicates []string
	Malformed  []data.Malformed
	Margin     chart.Margin
	XDomain    scale.Domain
	YDomain    scale.Domain
	Rebuild    bool
}

// Render draws ds with cfg. The config is copied and normalized; the
// caller's value is not modified. Configuration errors leave the container
// as it was.
func (c *Container) Render(ctx context.Context, cfg *chart.Config, ds data.Dataset) (*Report, error) {
	return c.render(ctx, cfg, ds, false)
}

// pending is a computed but uncommitted render.
type pending struct {
	cfg     *chart.Config
	ds      data.Dataset
	adapter variant.Adapter
	margin  chart.Margin
	left    float64
	x, y    scale.Scale
	xAxis   *axis.Spec
	yAxis   *axis.Spec
	timing  transition.Timing
	marks   *join.Plan
	xTicks  *join.Plan
	yTicks  *join.Plan
	report  *Report
}

func (c *Container) render(ctx context.Context, in *chart.Config, ds data.Dataset, rebuild bool) (*Report, error) {
	start := time.Now()
	var kind string
	if in != nil {
		kind = string(in.ChartType)
	}
	observability.Render().OnRenderStart(ctx, c.id, kind, len(ds))

	p, err := c.prepare(ctx, in, ds, rebuild)
	if err != nil {
		c.logger.Warn("render rejected", "container", c.id, "error", err)
		observability.Render().OnRenderComplete(ctx, c.id, 0, 0, 0, time.Since(start), err)
		return nil, err
	}
	c.commit(p, rebuild)

	r := p.report
	p.cfg.Logger.Debug("render committed", "container", c.id, "kind", p.cfg.ChartType,
		"enter", len(r.Enter), "update", len(r.Update), "exit", len(r.Exit),
		"rebuild", rebuild, "elapsed", time.Since(start))
	observability.Render().OnRenderComplete(ctx, c.id, len(r.Enter), len(r.Update), len(r.Exit), time.Since(start), nil)
	return r, nil
}

// prepare runs every fallible stage of a render. It reads the container
// but never modifies it.
func (c *Container) prepare(ctx context.Context, in *chart.Config, ds data.Dataset, rebuild bool) (*pending, error) {
	if in == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "config is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := in.Clone()
	if cfg.Logger == nil {
		cfg.Logger = c.logger
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	adapter, err := variant.For(cfg.ChartType)
	if err != nil {
		return nil, err
	}
	ease, err := transition.ParseEasing(cfg.Easing)
	if err != nil {
		return nil, err
	}
	palette, err := colors.NewResolver(cfg.BarColor, cfg.ColorScale)
	if err != nil {
		return nil, err
	}

	rows, malformed := data.Partition(ds, adapter.Requirements(cfg)...)
	for _, m := range malformed {
		cfg.Logger.Warn("skipping malformed record", "container", c.id, "index", m.Index, "field", m.Field, "reason", m.Reason)
		observability.Render().OnMalformed(ctx, c.id, m.Index, m.String())
	}
	rows = adapter.Prepare(cfg, rows)

	p := &pending{
		cfg:     cfg,
		ds:      rows,
		adapter: adapter,
		timing:  transition.Timing{Duration: cfg.Duration(), Stagger: cfg.Stagger(), Ease: ease},
	}

	xd, yd := adapter.Domains(cfg, rows)
	p.left = math.Max(c.left, cfg.Margin.Left)
	if err := c.layout(p, xd, yd); err != nil {
		return nil, err
	}

	palette.Fit(rows, cfg.ValueField())
	vctx := variant.Context{
		Config: cfg,
		Data:   rows,
		X:      p.x,
		Y:      p.y,
		Width:  p.plotWidth(c.width),
		Height: p.plotHeight(c.height),
		Colors: palette,
	}

	var prev, prevX, prevY *join.Set
	if !rebuild {
		prev, prevX, prevY = c.marks, c.xTicks, c.yTicks
	}
	p.marks = join.Reconcile(prev, adapter.Targets(vctx), adapter.Baseline(vctx))
	p.xTicks = join.Reconcile(prevX, tickTargets(p.xAxis), join.FadeBaseline)
	p.yTicks = join.Reconcile(prevY, tickTargets(p.yAxis), join.FadeBaseline)

	if len(p.marks.Duplicates) > 0 {
		cfg.Logger.Warn("dropping records with duplicate keys", "container", c.id, "keys", p.marks.Duplicates)
	}

	p.report = &Report{
		Container:  c.id,
		Kind:       cfg.ChartType,
		Enter:      keysOf(p.marks.Enter),
		Update:     keysOf(p.marks.Update),
		Exit:       keysOf(p.marks.Exit),
		Duplicates: p.marks.Duplicates,
		Malformed:  malformed,
		Margin:     p.margin,
		XDomain:    p.x.Domain(),
		YDomain:    p.y.Domain(),
		Rebuild:    rebuild,
	}
	return p, nil
}

// layout builds the scales and axes of p. The y axis is laid out first:
// when its labels need a wider left margin the margin grows and the x scale
// is rebuilt against the narrower plot.
func (c *Container) layout(p *pending, xd, yd scale.Domain) error {
	cfg := p.cfg
	p.margin = cfg.Margin
	p.margin.Left = p.left

	build := func() error {
		w, h := p.plotWidth(c.width), p.plotHeight(c.height)
		x, err := scale.Build(cfg.XAxis, 0, w, xd)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScaleKind, err, "x_axis")
		}
		// Continuous y grows upwards; bands run top to bottom.
		y0, y1 := h, 0.0
		if cfg.YAxis.ScaleKind == chart.ScaleBand {
			y0, y1 = 0, h
		}
		y, err := scale.Build(cfg.YAxis, y0, y1, yd)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScaleKind, err, "y_axis")
		}
		p.x, p.y = x, y
		return nil
	}
	if err := build(); err != nil {
		return err
	}
	if !cfg.ChartType.HasAxes() {
		return nil
	}

	opts := []axis.Option{axis.WithMeasurer(c.measurer)}
	if cfg.YAxis.Visible() {
		spec, err := axis.Layout(p.y, cfg.YAxis, opts...)
		if err != nil {
			cfg.Logger.Warn("text measurement failed, keeping configured margin", "container", c.id, "error", err)
		}
		if grown := axis.GrowMargin(p.left, spec.RequiredLeftMargin); grown > p.left {
			cfg.Logger.Debug("growing left margin", "container", c.id, "from", p.left, "to", grown)
			p.left = grown
			p.margin.Left = grown
			if err := build(); err != nil {
				return err
			}
			spec, _ = axis.Layout(p.y, cfg.YAxis, opts...)
		}
		p.yAxis = &spec
	}
	if cfg.XAxis.Visible() {
		spec, err := axis.Layout(p.x, cfg.XAxis, opts...)
		if err != nil {
			cfg.Logger.Warn("text measurement failed", "container", c.id, "axis", "x", "error", err)
		}
		p.xAxis = &spec
	}
	return nil
}

func (p *pending) plotWidth(width float64) float64 {
	return math.Max(width-p.margin.Left-p.margin.Right, 0)
}

func (p *pending) plotHeight(height float64) float64 {
	return math.Max(height-p.margin.Top-p.margin.Bottom, 0)
}

// commit installs p and schedules its transitions. It cannot fail.
func (c *Container) commit(p *pending, rebuild bool) {
	if rebuild {
		c.sched.CancelAll()
	}
	c.cfg, c.ds, c.adapter = p.cfg, p.ds, p.adapter
	c.margin, c.left = p.margin, p.left
	c.x, c.y = p.x, p.y
	c.xAxis, c.yAxis = p.xAxis, p.yAxis

	c.marks = p.marks.Apply()
	c.xTicks = p.xTicks.Apply()
	c.yTicks = p.yTicks.Apply()

	now := c.clock.Now()
	marks := c.marks
	c.sched.ScheduleGroup(now, markTasks, p.marks.Enter, p.timing, nil)
	c.sched.ScheduleGroup(now, markTasks, p.marks.Update, p.timing, nil)
	c.sched.ScheduleGroup(now, markTasks, startingExits(p.marks.Exit), p.timing, func(m join.Mark) {
		marks.Remove(m.Binding)
	})

	axisTiming := transition.Timing{Duration: p.cfg.AxisDuration(), Ease: p.timing.Ease}
	c.scheduleTicks(now, xTickTasks, c.xTicks, p.xTicks, axisTiming)
	c.scheduleTicks(now, yTickTasks, c.yTicks, p.yTicks, axisTiming)
}

func (c *Container) scheduleTicks(now time.Time, prefix string, set *join.Set, plan *join.Plan, timing transition.Timing) {
	c.sched.ScheduleGroup(now, prefix, unstaggered(plan.Enter), timing, nil)
	c.sched.ScheduleGroup(now, prefix, unstaggered(plan.Update), timing, nil)
	c.sched.ScheduleGroup(now, prefix, unstaggered(startingExits(plan.Exit)), timing, func(m join.Mark) {
		set.Remove(m.Binding)
	})
}

// startingExits drops exits that were already animating out; their
// running transition continues undisturbed.
func startingExits(exits []join.Mark) []join.Mark {
	out := make([]join.Mark, 0, len(exits))
	for _, m := range exits {
		if !m.Continuing {
			out = append(out, m)
		}
	}
	return out
}

// unstaggered starts every tick at once.
func unstaggered(marks []join.Mark) []join.Mark {
	for i := range marks {
		marks[i].Index = 0
	}
	return marks
}

func keysOf(marks []join.Mark) []string {
	keys := make([]string, len(marks))
	for i, m := range marks {
		keys[i] = m.Key
	}
	return keys
}

// =============================================================================
// Host events
// =============================================================================

// ObserveWidth feeds a width measurement from the host into the resize
// controller. It reports whether the debounce timer was armed or reset.
func (c *Container) ObserveWidth(width float64) bool {
	if !c.resize.Observe(width) {
		return false
	}
	c.logger.Debug("resize pending", "container", c.id, "width", width)
	observability.Resize().OnResizeObserved(c.id, width)
	return true
}

// SetHeight changes the container height. It takes effect on the next
// render or resize rebuild.
func (c *Container) SetHeight(height float64) { c.height = height }

// Tick advances transitions to the current time and fires a due resize. A
// fired resize clears every mark and re-runs the last render in full
// rebuild mode. Tick reports whether the container still needs ticking.
func (c *Container) Tick(ctx context.Context) (bool, error) {
	c.sched.Advance(c.clock.Now())

	if ev, ok := c.resize.Poll(); ok {
		observability.Resize().OnResizeFired(c.id, ev.Width)
		if err := c.rebuild(ctx, ev.Width); err != nil {
			return c.needsTick(), err
		}
		c.sched.Advance(c.clock.Now())
	}
	return c.needsTick(), nil
}

func (c *Container) needsTick() bool {
	_, ok := c.Deadline()
	return ok
}

func (c *Container) rebuild(ctx context.Context, width float64) error {
	c.logger.Debug("resize fired, rebuilding", "container", c.id, "width", width)
	c.width = width
	c.sched.CancelAll()
	c.marks.Clear()
	c.xTicks.Clear()
	c.yTicks.Clear()
	if c.cfg == nil {
		return nil
	}
	_, err := c.render(ctx, c.cfg, c.ds, true)
	return err
}

// Settle jumps every running transition to its end.
func (c *Container) Settle() {
	c.sched.Flush()
	c.marks.Settle()
	c.xTicks.Settle()
	c.yTicks.Settle()
}

// Click hit-tests the container point (x, y) against the displayed marks,
// topmost first, and calls the config's OnMarkClick for the first hit.
// Exiting marks are not clickable.
func (c *Container) Click(x, y float64) (chart.MarkEvent, bool) {
	if c.cfg == nil || c.adapter == nil {
		return chart.MarkEvent{}, false
	}
	px, py := x-c.margin.Left, y-c.margin.Top
	bindings := c.marks.Bindings()
	for i := len(bindings) - 1; i >= 0; i-- {
		b := bindings[i]
		if b.State == join.Exiting || b.State == join.Removed {
			continue
		}
		if !variant.Contains(c.adapter.Shape(), b.Current, px, py) {
			continue
		}
		ev := chart.MarkEvent{Key: b.Key, Index: b.Index, Datum: b.Datum}
		if c.cfg.OnMarkClick != nil {
			c.cfg.OnMarkClick(ev)
		}
		return ev, true
	}
	return chart.MarkEvent{}, false
}
