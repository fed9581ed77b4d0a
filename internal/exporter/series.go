package exporter

import (
	"log/slog"

	apperrors "stockcast/internal/errors"
	"stockcast/pkg/contracts/domain"
)

// SeriesExporter writes output series as Stock-ID,Timestamp,Price CSV files
type SeriesExporter struct {
	writer *CSVWriter
	bom    bool
	logger *slog.Logger
}

// NewSeriesExporter creates an exporter writing under outputDir
func NewSeriesExporter(outputDir string, bom bool, logger *slog.Logger) *SeriesExporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &SeriesExporter{
		writer: NewCSVWriter(outputDir, logger),
		bom:    bom,
		logger: logger,
	}
}

// Export writes series to name and returns the full path written.
// Rows read from a source keep their timestamp text; synthetic rows are
// written as DD-MM-YYYY.
func (e *SeriesExporter) Export(name string, series domain.OutputSeries) (string, error) {
	path, err := e.writer.WriteCSV(name, WriteOptions{
		Headers:   domain.DefaultColumns,
		Records:   SeriesRecords(series),
		BOMPrefix: e.bom,
	})
	if err != nil {
		return path, apperrors.NewWriteFailure(series.Source, err).WithContext("output", path)
	}

	e.logger.Debug("Output written",
		slog.String("source", series.Source),
		slog.String("output", path),
		slog.Int("rows", series.Len()))

	return path, nil
}

// SeriesRecords converts rows to CSV records in column order
func SeriesRecords(series domain.OutputSeries) [][]string {
	records := make([][]string, 0, series.Len())
	for _, row := range series.Rows {
		records = append(records, []string{
			row.StockID,
			row.TimestampText(),
			formatPrice(row.Price),
		})
	}
	return records
}
