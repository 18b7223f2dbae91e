// Package axis computes tick sets, labels and the margin an axis needs.
//
// [Layout] turns a scale and an axis configuration into a [Spec]: ordered
// ticks with their pixel position and formatted label. Explicit tick values
// are used verbatim. Otherwise continuous scales get "nice" ticks from
// go-moremath, and the tick level is raised until neighbouring labels no
// longer overlap.
//
// # Dynamic Margin
//
// When margin fitting is enabled for a vertical axis, the last tick label is
// measured and the axis asks for a left margin of 1.5 times its width.
// Containers apply the request with [GrowMargin], which only ever grows the
// margin.
//
// # Measurement
//
// Text is measured through a [Measurer], which hands out a [Probe] that must
// be closed when measuring is done. Layout closes every probe it acquires on
// all paths. When no measurer is configured, or measurement fails, widths are
// estimated from the font size and margin fitting is skipped.
package axis
