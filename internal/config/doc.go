// Package config loads and validates the predictor configuration.
//
// # Configuration Sources
//
// Values are layered in increasing order of precedence:
//
//	1. Defaults from Default()
//	2. A YAML file (the -config flag, or config.yaml / configs/config.yaml)
//	3. Environment variables prefixed with STOCKCAST_
//	4. Overrides passed to Load, which the predictor builds from command line flags
//
// # Environment Variables
//
// Nested sections map to underscore separated names:
//
//	STOCKCAST_PREDICTION_WINDOW_SIZE=10
//	STOCKCAST_PREDICTION_SEED=42
//	STOCKCAST_SOURCES_MODE=directory
//	STOCKCAST_SOURCES_EXCHANGES=LSE,NASDAQ,NYSE
//	STOCKCAST_OUTPUT_DIR=outputs
//	STOCKCAST_LOGGING_LEVEL=debug
//
// LoadDotEnv exports a .env file into the environment before Load runs, so
// the same names can be kept in a file next to the data.
//
// The explicit source table (sources.files) is ordered and can only be set
// from the YAML file.
//
// # Paths
//
// ResolvePaths turns the configured relative directories into absolute ones
// rooted at a base directory (the working directory by default).
package config
