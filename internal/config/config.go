package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Source discovery modes
const (
	ModeDirectory = "directory"
	ModeExplicit  = "explicit"
)

// Header handling for input files
const (
	HeaderAuto    = "auto"
	HeaderPresent = "present"
	HeaderAbsent  = "absent"
)

// Config represents the complete application configuration
type Config struct {
	Prediction PredictionConfig `yaml:"prediction" envconfig:"PREDICTION"`
	Sources    SourcesConfig    `yaml:"sources" envconfig:"SOURCES"`
	Output     OutputConfig     `yaml:"output" envconfig:"OUTPUT"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
	Recorder   RecorderConfig   `yaml:"recorder" envconfig:"RECORDER"`
}

// PredictionConfig controls sampling and the worker pool
type PredictionConfig struct {
	WindowSize int   `yaml:"window_size" envconfig:"WINDOW_SIZE" validate:"gte=1"`
	Seed       int64 `yaml:"seed" envconfig:"SEED"`
	Workers    int   `yaml:"workers" envconfig:"WORKERS" validate:"gte=1,lte=64"`
}

// NamedSource is one entry of the explicit source table
type NamedSource struct {
	Name string `yaml:"name" validate:"required,sourcename"`
	Path string `yaml:"path" validate:"required"`
}

// SourcesConfig describes where input series come from
type SourcesConfig struct {
	Mode             string        `yaml:"mode" envconfig:"MODE" validate:"oneof=directory explicit"`
	DataDir          string        `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	Exchanges        []string      `yaml:"exchanges" envconfig:"EXCHANGES" validate:"required_if=Mode directory,dive,required,sourcename"`
	FilesPerCategory int           `yaml:"files_per_category" envconfig:"FILES_PER_CATEGORY" validate:"gte=1"`
	Header           string        `yaml:"header" envconfig:"HEADER" validate:"oneof=auto present absent"`
	Columns          []string      `yaml:"columns" envconfig:"COLUMNS" validate:"len=3,dive,required"`
	Files            []NamedSource `yaml:"files" ignored:"true" validate:"required_if=Mode explicit,dive"`
}

// HasHeader resolves the header setting for the configured mode.
// Directory-mode files carry a header row, explicit-map files do not.
func (s SourcesConfig) HasHeader() bool {
	switch s.Header {
	case HeaderPresent:
		return true
	case HeaderAbsent:
		return false
	default:
		return s.Mode != ModeExplicit
	}
}

// OutputConfig controls where predictions are written
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" validate:"required"`
	BOM bool   `yaml:"bom" envconfig:"BOM"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig selects trace and metric exporters
type TelemetryConfig struct {
	Tracing     string `yaml:"tracing" envconfig:"TRACING" validate:"oneof=none stdout"`
	Metrics     string `yaml:"metrics" envconfig:"METRICS" validate:"oneof=none prometheus"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// RecorderConfig enables the prediction history store
type RecorderConfig struct {
	SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
}

// Load builds the configuration from defaults, an optional YAML file,
// STOCKCAST_* environment variables and finally overrides (command line
// flags), in increasing order of precedence. An empty path searches the
// usual locations.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	for _, override := range overrides {
		override(cfg)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv exports the variables of a .env file into the process
// environment so Load sees them. Variables already set win; a missing file
// is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize trims list values that may come from comma separated env vars
func (c *Config) normalize() {
	c.Sources.Mode = strings.ToLower(strings.TrimSpace(c.Sources.Mode))
	c.Sources.Header = strings.ToLower(strings.TrimSpace(c.Sources.Header))
	for i, ex := range c.Sources.Exchanges {
		c.Sources.Exchanges[i] = strings.TrimSpace(ex)
	}
	for i, col := range c.Sources.Columns {
		c.Sources.Columns[i] = strings.TrimSpace(col)
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("sourcename", isValidSourceName); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatValidationError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}

	seen := make(map[string]struct{}, len(c.Sources.Files))
	for _, f := range c.Sources.Files {
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("duplicate source name: %s", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// formatValidationError renders a field error as a readable message
func formatValidationError(err validator.FieldError) string {
	field := err.Namespace()
	switch err.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, err.Param())
	case "len":
		return fmt.Sprintf("%s must have exactly %s entries", field, err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(err.Param(), " ", ", "))
	case "sourcename":
		return fmt.Sprintf("%s must be a plain name without path separators", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isValidSourceName rejects names that would escape the output directory
func isValidSourceName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// getConfigFilePath returns the first config file found in the usual locations
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Prediction: PredictionConfig{
			WindowSize: DefaultWindowSize,
			Workers:    1,
		},
		Sources: SourcesConfig{
			Mode:             ModeDirectory,
			DataDir:          DefaultDataDir,
			Exchanges:        append([]string(nil), DefaultExchanges...),
			FilesPerCategory: DefaultFilesPerCategory,
			Header:           HeaderAuto,
			Columns:          []string{"Stock-ID", "Timestamp", "Price"},
		},
		Output: OutputConfig{
			Dir: DefaultOutputDir,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "console",
		},
		Telemetry: TelemetryConfig{
			Tracing: "none",
			Metrics: "none",
		},
	}
}
