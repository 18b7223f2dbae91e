// Package scale maps data values to pixel coordinates.
//
// Three scale types cover every chart variant:
//
//   - [Linear] maps a continuous [min, max] domain onto a pixel extent. The
//     normalization and tick generation are delegated to go-moremath.
//   - [Band] divides an extent into equal bands, one per category key, in the
//     order keys were first seen.
//   - [Identity] is the degenerate scale used when a domain is empty. It
//     never fails, so an empty dataset renders as an empty chart instead of
//     an error.
//
// Domains are derived from a dataset with [Derive] before any geometry is
// computed, and [Build] turns an axis configuration, a pixel extent and a
// derived domain into a [Scale].
package scale
