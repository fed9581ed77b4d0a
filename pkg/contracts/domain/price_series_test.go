package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestPriceRow_FormattedTimestamp(t *testing.T) {
	row := PriceRow{StockID: "FLTR", Timestamp: time.Date(2023, time.March, 7, 0, 0, 0, 0, time.UTC), Price: 12.5}
	assert.Equal(t, "07-03-2023", row.FormattedTimestamp())
}

func TestPriceRow_TimestampText(t *testing.T) {
	ts := time.Date(2024, time.January, 3, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		row  PriceRow
		want string
	}{
		{"read row keeps source text", PriceRow{Timestamp: ts, RawTimestamp: "03-01-2024 10:30"}, "03-01-2024 10:30"},
		{"iso source text", PriceRow{Timestamp: day(2), RawTimestamp: "2024-01-02"}, "2024-01-02"},
		{"synthetic row", PriceRow{Timestamp: ts}, "03-01-2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.row.TimestampText())
		})
	}
}

func TestPriceSeries_Accessors(t *testing.T) {
	s := PriceSeries{
		Source: "LSE/FLTR.csv",
		Rows: []PriceRow{
			{StockID: "FLTR", Timestamp: day(1), Price: 10},
			{StockID: "FLTR", Timestamp: day(2), Price: 11},
		},
	}

	assert.Equal(t, 2, s.Len())
	assert.False(t, s.IsEmpty())
	assert.Equal(t, []float64{10, 11}, s.Prices())

	assert.True(t, PriceSeries{}.IsEmpty())
}

func TestOutputSeries_Split(t *testing.T) {
	out := OutputSeries{Rows: []PriceRow{
		{Price: 1}, {Price: 2}, {Price: 3}, {Price: 4}, {Price: 5},
	}}

	assert.Len(t, out.Observed(), 2)
	assert.Len(t, out.Predicted(), PredictionHorizon)
	assert.Equal(t, 3.0, out.Predicted()[0].Price)

	assert.Nil(t, OutputSeries{Rows: []PriceRow{{Price: 1}}}.Predicted())
}
