package forecast

import (
	apperrors "stockcast/internal/errors"
	"stockcast/pkg/contracts/domain"
)

// Assemble appends one synthetic row per predicted price to a copy of the
// window. Row k is dated k days after the window's last row and carries the
// window's instrument id. Every window row must share that id.
func Assemble(window domain.Window, prediction domain.Prediction) (domain.OutputSeries, error) {
	if window.Len() == 0 {
		return domain.OutputSeries{}, apperrors.NewInsufficientData(window.Source, 0, 1)
	}

	id := window.Rows[0].StockID
	for i, row := range window.Rows[1:] {
		if row.StockID != id {
			return domain.OutputSeries{}, apperrors.NewInconsistentSeriesID(window.Source, id, row.StockID, i+1)
		}
	}

	anchor := window.Rows[window.Len()-1].Timestamp

	rows := make([]domain.PriceRow, 0, window.Len()+domain.PredictionHorizon)
	rows = append(rows, window.Rows...)
	for k, price := range prediction {
		rows = append(rows, domain.PriceRow{
			StockID:   id,
			Timestamp: anchor.AddDate(0, 0, k+1),
			Price:     price,
		})
	}

	return domain.OutputSeries{Source: window.Source, Rows: rows}, nil
}

// OutOfOrder returns the indices of window rows dated before their predecessor.
// Such windows are still processed; callers decide whether to warn.
func OutOfOrder(window domain.Window) []int {
	var idx []int
	for i := 1; i < window.Len(); i++ {
		if window.Rows[i].Timestamp.Before(window.Rows[i-1].Timestamp) {
			idx = append(idx, i)
		}
	}
	return idx
}
