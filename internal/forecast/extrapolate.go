package forecast

import (
	"slices"

	apperrors "stockcast/internal/errors"
	"stockcast/pkg/contracts/domain"
)

// MinPredictRows is the smallest window Predict accepts
const MinPredictRows = 2

// Predict extrapolates three prices from window.
//
// The first value is the window's second-highest price. It also serves as the
// target the last observed price converges to: the second value closes half
// the gap, the third a quarter of what remains.
func Predict(window domain.Window) (domain.Prediction, error) {
	if window.Len() < MinPredictRows {
		return domain.Prediction{}, apperrors.NewInsufficientData(window.Source, window.Len(), MinPredictRows)
	}

	sorted := window.Prices()
	slices.Sort(sorted)

	nPlus1 := sorted[len(sorted)-2]
	n := window.Rows[window.Len()-1].Price

	nPlus2 := n + (nPlus1-n)/2
	nPlus3 := nPlus2 + (nPlus1-nPlus2)/4

	return domain.Prediction{nPlus1, nPlus2, nPlus3}, nil
}
