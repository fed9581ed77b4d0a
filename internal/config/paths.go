package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved directories used by a run.
// Relative locations from the configuration are joined onto BaseDir.
type Paths struct {
	BaseDir   string
	DataDir   string
	OutputDir string
	LogsDir   string
	LogFile   string
}

// ResolvePaths resolves configured paths against baseDir.
// An empty baseDir means the current working directory.
func ResolvePaths(cfg *Config, baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %w", baseDir, err)
	}

	paths := &Paths{
		BaseDir:   abs,
		DataDir:   resolve(abs, cfg.Sources.DataDir),
		OutputDir: resolve(abs, cfg.Output.Dir),
		LogsDir:   resolve(abs, DefaultLogsDir),
	}
	if cfg.Logging.FilePath != "" {
		paths.LogFile = resolve(abs, cfg.Logging.FilePath)
		paths.LogsDir = filepath.Dir(paths.LogFile)
	}

	return paths, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Resolve joins a relative path onto BaseDir; absolute paths pass through
func (p *Paths) Resolve(path string) string {
	return resolve(p.BaseDir, path)
}

// GetOutputPath returns the path for an output file
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetExchangeDir returns the directory holding one exchange's series
func (p *Paths) GetExchangeDir(exchange string) string {
	return filepath.Join(p.DataDir, exchange)
}

// EnsureDirectories creates the output directory
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", p.OutputDir, err)
	}
	return nil
}

// LogPathResolution logs the resolved directories
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("output", p.OutputDir),
			slog.String("logs", p.LogsDir),
		))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
