package sources

import (
	"context"
	"fmt"

	"stockcast/internal/config"
	apperrors "stockcast/internal/errors"
)

// Source is one input file scheduled for prediction
type Source struct {
	// Key identifies the source in logs and reports
	Key string
	// Category is the exchange for directory mode and empty for explicit mode
	Category string
	// Path is the input file location
	Path string
	// OutputName is the output file name relative to the output directory
	OutputName string
}

// Skip records a category that produced no sources
type Skip struct {
	Category string
	Reason   error
}

// Plan is the ordered work list produced by a Discoverer
type Plan struct {
	Sources []Source
	Skipped []Skip
}

// Discoverer lists the sources of one batch run
type Discoverer interface {
	// Mode names the discovery strategy
	Mode() string
	// Discover returns at most limit sources per category, in processing order
	Discover(ctx context.Context, limit int) (Plan, error)
}

// New returns the discoverer selected by cfg.Sources.Mode
func New(cfg *config.Config, paths *config.Paths) (Discoverer, error) {
	switch cfg.Sources.Mode {
	case config.ModeDirectory:
		return NewDirectoryDiscoverer(paths.DataDir, cfg.Sources.Exchanges), nil
	case config.ModeExplicit:
		entries := make([]config.NamedSource, len(cfg.Sources.Files))
		for i, f := range cfg.Sources.Files {
			entries[i] = config.NamedSource{Name: f.Name, Path: paths.Resolve(f.Path)}
		}
		return NewExplicitDiscoverer(entries), nil
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown source mode %q", cfg.Sources.Mode), nil)
	}
}

func checkLimit(limit int) error {
	if limit < 1 {
		return apperrors.NewConfigError(fmt.Sprintf("source limit must be at least 1, got %d", limit), nil)
	}
	return nil
}
