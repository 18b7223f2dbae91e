// Package render owns the per-container state of animated charts.
//
// # Overview
//
// A [Container] holds everything one chart instance needs between renders:
// its size, its monotonic left margin, the scales of the last render, the
// keyed mark bindings, the axis tick bindings, a transition scheduler and a
// resize controller. Containers never share state.
//
// A render runs in two phases. First every fallible step is computed
// without touching the container: configuration validation, variant
// lookup, domain derivation, scale construction, axis layout and the data
// join. Then the result is committed in one step and the enter, update and
// exit groups are scheduled. A render that fails therefore leaves the
// previous visual state untouched.
//
//	c := render.NewContainer(640, 400)
//	report, err := c.Render(ctx, cfg, dataset)
//	for c.Tick() {
//	    draw(c.Frame())
//	}
//
// # Time
//
// Containers read time from an injected clock.Clock and never start
// goroutines. The host drives them: [Container.Tick] advances running
// transitions and fires a debounced resize when one is due. Tests and
// offline renderers use clock.Manual to step through an animation
// deterministically.
//
// # Variants
//
// Chart kinds are resolved through the closed adapter table in the
// [variant] subpackage. Output formats live in the [sink] subpackage.
//
// [variant]: github.com/matzehuels/animchart/pkg/render/variant
// [sink]: github.com/matzehuels/animchart/pkg/render/sink
package render
