package domain

import (
	"time"
)

// Column names used by price series files.
const (
	ColumnStockID   = "Stock-ID"
	ColumnTimestamp = "Timestamp"
	ColumnPrice     = "Price"
)

// DefaultColumns is the positional column order of a price series file
var DefaultColumns = []string{ColumnStockID, ColumnTimestamp, ColumnPrice}

// TimestampLayout is the DD-MM-YYYY layout used when writing timestamps
const TimestampLayout = "02-01-2006"

// PredictionHorizon is the number of synthetic rows appended to a window
const PredictionHorizon = 3

// PriceRow is a single observation of an instrument's price.
// RawTimestamp holds the timestamp text as read from the source file and is
// empty for synthetic rows.
type PriceRow struct {
	StockID      string    `json:"stock_id" csv:"Stock-ID"`
	Timestamp    time.Time `json:"timestamp" csv:"Timestamp"`
	RawTimestamp string    `json:"raw_timestamp,omitempty" csv:"-"`
	Price        float64   `json:"price" csv:"Price"`
}

// FormattedTimestamp returns the row timestamp in DD-MM-YYYY form
func (r PriceRow) FormattedTimestamp() string {
	return r.Timestamp.Format(TimestampLayout)
}

// TimestampText returns the timestamp as read from the source, falling back
// to DD-MM-YYYY for rows that were never read
func (r PriceRow) TimestampText() string {
	if r.RawTimestamp != "" {
		return r.RawTimestamp
	}
	return r.FormattedTimestamp()
}

// PriceSeries is an ordered set of rows for one instrument, in file order.
type PriceSeries struct {
	// Source identifies where the rows were loaded from (a file path or table key)
	Source string     `json:"source"`
	Rows   []PriceRow `json:"rows"`
}

// Len returns the number of rows in the series
func (s PriceSeries) Len() int {
	return len(s.Rows)
}

// IsEmpty reports whether the series has no rows
func (s PriceSeries) IsEmpty() bool {
	return len(s.Rows) == 0
}

// Prices returns the price column in row order
func (s PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s.Rows))
	for i, row := range s.Rows {
		prices[i] = row.Price
	}
	return prices
}

// Window is a contiguous slice of a PriceSeries.
// Start is the index of the first row in the originating series.
type Window struct {
	Source string     `json:"source"`
	Start  int        `json:"start"`
	Rows   []PriceRow `json:"rows"`
}

// Len returns the number of rows in the window
func (w Window) Len() int {
	return len(w.Rows)
}

// Prices returns the window prices in window order
func (w Window) Prices() []float64 {
	prices := make([]float64, len(w.Rows))
	for i, row := range w.Rows {
		prices[i] = row.Price
	}
	return prices
}

// Prediction holds the extrapolated prices for the next three days, in order.
type Prediction [PredictionHorizon]float64

// OutputSeries is a window followed by its synthetic future rows
type OutputSeries struct {
	Source string     `json:"source"`
	Rows   []PriceRow `json:"rows"`
}

// Len returns the number of rows in the output series
func (o OutputSeries) Len() int {
	return len(o.Rows)
}

// Observed returns the rows copied from the window
func (o OutputSeries) Observed() []PriceRow {
	if len(o.Rows) < PredictionHorizon {
		return nil
	}
	return o.Rows[:len(o.Rows)-PredictionHorizon]
}

// Predicted returns the synthetic rows appended after the window
func (o OutputSeries) Predicted() []PriceRow {
	if len(o.Rows) < PredictionHorizon {
		return nil
	}
	return o.Rows[len(o.Rows)-PredictionHorizon:]
}
