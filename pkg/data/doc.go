// Package data holds the tabular records a chart is rendered from.
//
// # Records
//
// A [Record] is an open mapping of named fields. The rendering kernel never
// reads a field directly; it goes through a [Selector], which names the
// field and knows how to coerce it to a number or a category key.
//
// # Malformed Records
//
// A record whose selected field is missing, or not numeric where a number is
// required, is malformed. [Partition] splits a dataset into the records that
// can be plotted and a report of the ones that cannot, so one bad row never
// aborts a render.
//
// # Import
//
// [ReadJSON], [ReadCSV] and [ReadYAML] decode a dataset from an io.Reader;
// [ImportFile] picks the decoder from the file extension:
//
//	ds, err := data.ImportFile("sales.csv")
//
// JSON input is either an array of objects or an object with a "data" array.
// CSV input has a header row; cells that parse as numbers become float64.
package data
