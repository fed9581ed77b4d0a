package sources

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"stockcast/internal/config"
	apperrors "stockcast/internal/errors"
	"stockcast/internal/files"
)

// ErrNoFiles marks an exchange directory without CSV files
var ErrNoFiles = errors.New("no files found in directory")

// DirectoryDiscoverer lists CSV files under one directory per exchange
type DirectoryDiscoverer struct {
	dataDir   string
	exchanges []string
	discovery *files.Discovery
}

// NewDirectoryDiscoverer scans dataDir/<exchange> for each exchange, in order
func NewDirectoryDiscoverer(dataDir string, exchanges []string) *DirectoryDiscoverer {
	return &DirectoryDiscoverer{
		dataDir:   dataDir,
		exchanges: append([]string(nil), exchanges...),
		discovery: files.NewDiscovery(dataDir),
	}
}

// Mode implements Discoverer
func (d *DirectoryDiscoverer) Mode() string {
	return config.ModeDirectory
}

// Discover implements Discoverer
func (d *DirectoryDiscoverer) Discover(ctx context.Context, limit int) (Plan, error) {
	if err := checkLimit(limit); err != nil {
		return Plan{}, err
	}

	var plan Plan
	for _, exchange := range d.exchanges {
		if err := ctx.Err(); err != nil {
			return plan, err
		}

		dir := filepath.Join(d.dataDir, exchange)
		if !files.DirExists(dir) {
			plan.Skipped = append(plan.Skipped, Skip{
				Category: exchange,
				Reason:   apperrors.NewSourceNotFound(dir, fmt.Errorf("not a directory: %w", os.ErrNotExist)),
			})
			continue
		}

		found, err := d.discovery.FindCSVFiles(exchange)
		if err != nil {
			plan.Skipped = append(plan.Skipped, Skip{Category: exchange, Reason: err})
			continue
		}
		if len(found) == 0 {
			plan.Skipped = append(plan.Skipped, Skip{Category: exchange, Reason: ErrNoFiles})
			continue
		}

		for _, f := range found[:min(limit, len(found))] {
			plan.Sources = append(plan.Sources, Source{
				Key:        exchange + "/" + f.Name,
				Category:   exchange,
				Path:       f.Path,
				OutputName: exchange + config.DirectoryOutputInfix + f.Name,
			})
		}
	}

	return plan, nil
}
