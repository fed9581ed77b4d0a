// Package dataprocessing loads price series files into domain.PriceSeries values.
//
// Two formats are supported and chosen by file extension:
//
//   - .csv files are read with encoding/csv. A leading UTF-8 byte order mark is ignored.
//   - .xlsx workbooks are read from their first sheet with excelize.
//
// Files either start with a header row naming the Stock-ID, Timestamp and Price
// columns (in any order, case-insensitive) or carry no header, in which case
// ParseOptions.Columns gives the positional order.
//
// Timestamps are day-first (DD-MM-YYYY, D-M-YYYY, DD/MM/YYYY, DD.MM.YYYY with an
// optional time of day). ISO dates are accepted as a fallback.
//
// # Errors
//
// Failures are returned as *errors.PipelineError values:
//
//	- SourceNotFound when the file does not exist
//	- EmptySeries when the file holds no data rows
//	- ParseFailure for malformed rows, naming the offending line
//
// Usage:
//
//	loader := dataprocessing.NewLoader(dataprocessing.DefaultParseOptions(), logger)
//	series, err := loader.Load(ctx, "data/LSE/FLTR.csv")
package dataprocessing
