// Package sink turns container frames into output formats.
//
// [SVG] writes a standalone SVG document of one frame. [Text] rasterizes a
// frame into colored terminal cells for live previews. [ToPNG] and [ToPDF]
// convert SVG output with the external rsvg-convert tool.
//
//	frame := container.Frame()
//	svg := sink.SVG(frame, sink.WithFontSize(12))
//	png, err := sink.ToPNG(ctx, svg, 2)
package sink
