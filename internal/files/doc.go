// Package files provides file discovery for price series inputs.
//
// Discovery lists the series files of a directory in name order, which is the
// order the batch driver processes them in. Relative directories are resolved
// against the discovery base path.
//
// Example usage:
//
//	discovery := files.NewDiscovery("data")
//	csvFiles, err := discovery.FindCSVFiles("LSE")
package files
