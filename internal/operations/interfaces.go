package operations

import (
	"context"

	"stockcast/pkg/contracts/domain"
)

// SeriesLoader reads the series stored at a source path
type SeriesLoader interface {
	Load(ctx context.Context, path string) (domain.PriceSeries, error)
}

// SeriesWriter persists an output series under name and returns the path written
type SeriesWriter interface {
	Export(name string, series domain.OutputSeries) (string, error)
}
