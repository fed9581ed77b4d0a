package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"stockcast/pkg/contracts/domain"
)

// FixtureStart is the date of the first row produced by the series helpers
var FixtureStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// NewSeries builds a series for id with one row per price on consecutive days
func NewSeries(source, id string, prices ...float64) domain.PriceSeries {
	rows := make([]domain.PriceRow, len(prices))
	for i, p := range prices {
		rows[i] = domain.PriceRow{
			StockID:   id,
			Timestamp: FixtureStart.AddDate(0, 0, i),
			Price:     p,
		}
	}
	return domain.PriceSeries{Source: source, Rows: rows}
}

// SeriesCSV renders prices for id as CSV text with consecutive DD-MM-YYYY dates
func SeriesCSV(id string, header bool, prices ...float64) string {
	var b strings.Builder
	if header {
		b.WriteString(strings.Join(domain.DefaultColumns, ","))
		b.WriteString("\n")
	}
	for i, p := range prices {
		fmt.Fprintf(&b, "%s,%s,%s\n", id,
			FixtureStart.AddDate(0, 0, i).Format(domain.TimestampLayout),
			strconv.FormatFloat(p, 'f', -1, 64))
	}
	return b.String()
}

// WriteFile writes content to dir/name, creating parent directories
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// WriteSeriesCSV writes a headed series file for id under dir/name
func WriteSeriesCSV(t *testing.T, dir, name, id string, prices ...float64) string {
	t.Helper()
	return WriteFile(t, dir, name, SeriesCSV(id, true, prices...))
}

// Prices returns n ascending prices starting at from
func Prices(n int, from float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)
	}
	return out
}
