package config

// Application constants
const (
	// Application Info
	AppName = "stockcast"

	// EnvPrefix namespaces environment overrides (STOCKCAST_PREDICTION_WINDOW_SIZE, ...)
	EnvPrefix = "STOCKCAST"

	// Prediction defaults
	DefaultWindowSize       = 10
	DefaultFilesPerCategory = 1

	// File Paths (relative to the base directory)
	DefaultDataDir   = "data"
	DefaultOutputDir = "outputs"
	DefaultLogsDir   = "logs"
	DefaultLogFile   = "logs/predictor.log"

	// Output naming
	DirectoryOutputInfix = "_predicted_"
	ExplicitOutputExt    = ".csv"
)

// DefaultExchanges are the exchange folders scanned in directory mode
var DefaultExchanges = []string{"LSE", "NASDAQ", "NYSE"}
