package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "stockcast/internal/errors"
	"stockcast/pkg/contracts/domain"
)

// utf8BOM is stripped from the first cell of an input file
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// timestampLayouts are tried in order. Day-first forms come before ISO.
var timestampLayouts = []string{
	"02-01-2006",
	"2-1-2006",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"02-01-2006 15:04",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseOptions controls how rows are mapped onto price rows
type ParseOptions struct {
	// Header reports whether the first row holds column names
	Header bool
	// Columns names the file's columns in positional order when Header is false
	Columns []string
}

// DefaultParseOptions expects a header row with the standard columns
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Header:  true,
		Columns: append([]string(nil), domain.DefaultColumns...),
	}
}

// columnIndex holds the position of each required field in a row
type columnIndex struct {
	id, timestamp, price int
}

func (c columnIndex) width() int {
	return max(c.id, c.timestamp, c.price) + 1
}

// Loader reads price series files from disk
type Loader struct {
	opts   ParseOptions
	logger *slog.Logger
}

// NewLoader creates a loader using opts for every file
func NewLoader(opts ParseOptions, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.Columns) == 0 {
		opts.Columns = append([]string(nil), domain.DefaultColumns...)
	}
	return &Loader{opts: opts, logger: logger.With(slog.String("component", "loader"))}
}

// Load reads the series stored at path. The format is picked from the file
// extension: .xlsx files are read from their first sheet, anything else as CSV.
func (l *Loader) Load(ctx context.Context, path string) (domain.PriceSeries, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.PriceSeries{}, apperrors.NewSourceNotFound(path, err)
	}
	if info.IsDir() {
		return domain.PriceSeries{}, apperrors.NewSourceNotFound(path, fmt.Errorf("%s is a directory", path))
	}

	var series domain.PriceSeries
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		series, err = ParseSeriesXLSX(path, l.opts)
	default:
		series, err = parseCSVFile(path, l.opts)
	}
	if err != nil {
		return domain.PriceSeries{}, err
	}

	l.logger.DebugContext(ctx, "series loaded",
		slog.String("source", path),
		slog.Int("rows", series.Len()))

	return series, nil
}

func parseCSVFile(path string, opts ParseOptions) (domain.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.PriceSeries{}, apperrors.NewSourceNotFound(path, err)
	}
	defer f.Close()

	return ParseSeriesCSV(f, path, opts)
}

// ParseSeriesCSV reads a comma separated price series from r.
// source is recorded on the series and on any error.
func ParseSeriesCSV(r io.Reader, source string, opts ParseOptions) (domain.PriceSeries, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return domain.PriceSeries{}, apperrors.NewParseFailure(source, "malformed csv", err)
	}

	return parseRecords(source, records, opts)
}

// ParseSeriesXLSX reads a price series from the first sheet of an Excel workbook
func ParseSeriesXLSX(path string, opts ParseOptions) (domain.PriceSeries, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.PriceSeries{}, apperrors.NewSourceNotFound(path, err)
		}
		return domain.PriceSeries{}, apperrors.NewParseFailure(path, "failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.PriceSeries{}, apperrors.NewEmptySeries(path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return domain.PriceSeries{}, apperrors.NewParseFailure(path, fmt.Sprintf("failed to read sheet %q", sheets[0]), err)
	}

	// GetRows keeps rows with only empty cells
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !isBlank(row) {
			records = append(records, row)
		}
	}

	return parseRecords(path, records, opts)
}

func parseRecords(source string, records [][]string, opts ParseOptions) (domain.PriceSeries, error) {
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = string(bytes.TrimPrefix([]byte(records[0][0]), utf8BOM))
	}

	names := opts.Columns
	if opts.Header {
		if len(records) == 0 {
			return domain.PriceSeries{}, apperrors.NewEmptySeries(source)
		}
		names = records[0]
		records = records[1:]
	}

	idx, err := locateColumns(names)
	if err != nil {
		return domain.PriceSeries{}, apperrors.NewParseFailure(source, "invalid header", err)
	}

	if len(records) == 0 {
		return domain.PriceSeries{}, apperrors.NewEmptySeries(source)
	}

	rows := make([]domain.PriceRow, 0, len(records))
	for i, record := range records {
		line := i + 1
		if opts.Header {
			line++
		}

		row, err := parseRow(record, idx)
		if err != nil {
			return domain.PriceSeries{}, apperrors.NewParseFailure(source, fmt.Sprintf("line %d", line), err).
				WithContext("line", line)
		}
		rows = append(rows, row)
	}

	return domain.PriceSeries{Source: source, Rows: rows}, nil
}

// locateColumns finds the required fields among names, ignoring case
func locateColumns(names []string) (columnIndex, error) {
	idx := columnIndex{id: -1, timestamp: -1, price: -1}
	for i, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case strings.ToLower(domain.ColumnStockID):
			idx.id = i
		case strings.ToLower(domain.ColumnTimestamp):
			idx.timestamp = i
		case strings.ToLower(domain.ColumnPrice):
			idx.price = i
		}
	}

	var missing []string
	if idx.id < 0 {
		missing = append(missing, domain.ColumnStockID)
	}
	if idx.timestamp < 0 {
		missing = append(missing, domain.ColumnTimestamp)
	}
	if idx.price < 0 {
		missing = append(missing, domain.ColumnPrice)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing column(s): %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRow(record []string, idx columnIndex) (domain.PriceRow, error) {
	if len(record) < idx.width() {
		return domain.PriceRow{}, fmt.Errorf("expected at least %d fields, got %d", idx.width(), len(record))
	}

	id := strings.TrimSpace(record[idx.id])
	if id == "" {
		return domain.PriceRow{}, fmt.Errorf("empty %s", domain.ColumnStockID)
	}

	rawTS := strings.TrimSpace(record[idx.timestamp])
	ts, err := ParseTimestamp(rawTS)
	if err != nil {
		return domain.PriceRow{}, err
	}

	price, err := ParsePrice(record[idx.price])
	if err != nil {
		return domain.PriceRow{}, err
	}

	return domain.PriceRow{StockID: id, Timestamp: ts, RawTimestamp: rawTS, Price: price}, nil
}

// ParseTimestamp parses a day-first date with an optional time of day.
// ISO dates are accepted as a fallback.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// thousandsGrouped matches a number whose integer part uses comma separated
// groups of three digits
var thousandsGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d*)?$`)

// ParsePrice parses a decimal price. Commas are accepted only as thousands
// separators, so "1,5" is rejected rather than read as 15.
func ParsePrice(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0, fmt.Errorf("empty %s", domain.ColumnPrice)
	}
	if strings.Contains(cleaned, ",") {
		if !thousandsGrouped.MatchString(cleaned) {
			return 0, fmt.Errorf("invalid price %q: misplaced thousands separator", value)
		}
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", value, err)
	}
	return price, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
