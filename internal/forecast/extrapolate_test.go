package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "stockcast/internal/errors"
	"stockcast/pkg/contracts/domain"
)

func windowOf(series domain.PriceSeries) domain.Window {
	return domain.Window{Source: series.Source, Rows: series.Rows}
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   domain.Prediction
	}{
		{
			name:   "reference window",
			prices: []float64{10, 12, 15, 11, 13, 9, 14, 16, 8, 17},
			want:   domain.Prediction{16, 16.5, 16.375},
		},
		{
			name:   "last price below second highest",
			prices: []float64{10, 20, 30, 10},
			// p=20, n=10 -> 15, 15+(20-15)/4
			want: domain.Prediction{20, 15, 16.25},
		},
		{
			name:   "two rows",
			prices: []float64{4, 8},
			// p=4, n=8 -> 6, 6+(4-6)/4
			want: domain.Prediction{4, 6, 5.5},
		},
		{
			name:   "flat prices",
			prices: []float64{5, 5, 5},
			want:   domain.Prediction{5, 5, 5},
		},
		{
			name:   "duplicated maximum",
			prices: []float64{1, 9, 9, 3},
			// second highest of [1 3 9 9] is 9
			want: domain.Prediction{9, 6, 6.75},
		},
		{
			name:   "negative prices",
			prices: []float64{-3, -1, -2},
			// sorted [-3 -2 -1], p=-2, n=-2
			want: domain.Prediction{-2, -2, -2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Predict(windowOf(makeSeries("X", tt.prices...)))
			require.NoError(t, err)
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-12, "day %d", i+1)
			}
		})
	}
}

func TestPredict_Deterministic(t *testing.T) {
	w := windowOf(makeSeries("X", 10, 12, 15, 11, 13, 9, 14, 16, 8, 17))
	first, err := Predict(w)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Predict(w)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPredict_DoesNotReorderWindow(t *testing.T) {
	w := windowOf(makeSeries("X", 3, 1, 2))
	_, err := Predict(w)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, w.Prices())
}

func TestPredict_InsufficientData(t *testing.T) {
	tests := []struct {
		name   string
		window domain.Window
	}{
		{"empty window", domain.Window{Source: "e.csv"}},
		{"single row", windowOf(makeSeries("X", 42))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Predict(tt.window)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInsufficientData)
		})
	}
}
