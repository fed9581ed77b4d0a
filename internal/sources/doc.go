// Package sources decides which input files a batch run processes.
//
// A Discoverer turns configuration into an ordered Plan of sources. Two
// strategies exist:
//
//   - DirectoryDiscoverer scans <data_dir>/<exchange>/ for CSV files and takes
//     the first n of each exchange in name order. Outputs are named
//     {exchange}_predicted_{file}.
//   - ExplicitDiscoverer takes the first n entries of an ordered name to path
//     table. Outputs are named {name}.csv.
//
// Exchanges that cannot be scanned are reported in Plan.Skipped so the batch
// can log them and carry on with the rest.
package sources
