// Package exporter writes prediction output as CSV.
//
// CSVWriter is the low level writer: it resolves relative paths against the
// output directory, creates missing directories, optionally prefixes a UTF-8
// BOM and replaces the target atomically.
//
// SeriesExporter renders a domain.OutputSeries with the header
// Stock-ID,Timestamp,Price, window timestamps as read, DD-MM-YYYY timestamps
// on synthetic rows and shortest round-trip prices. Failures are reported as
// WriteFailure pipeline errors.
//
// Example usage:
//
//	exp := exporter.NewSeriesExporter("outputs", false, logger)
//	path, err := exp.Export("LSE_predicted_FLTR.csv", out)
package exporter
