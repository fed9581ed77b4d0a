package forecast

import (
	"context"
	"log/slog"
	"math/rand/v2"

	apperrors "stockcast/internal/errors"
	"stockcast/pkg/contracts/domain"
)

// Sampler selects a contiguous window from a price series
type Sampler struct {
	rng    *rand.Rand
	logger *slog.Logger
}

// NewSampler creates a sampler drawing offsets from rng
func NewSampler(rng *rand.Rand, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{rng: rng, logger: logger}
}

// NewSeededRand returns a generator for seed. Equal seeds give equal sequences.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

// Sample returns size consecutive rows starting at a uniformly drawn offset in
// [0, len(series)-size]. A series shorter than size is returned whole.
func (s *Sampler) Sample(ctx context.Context, series domain.PriceSeries, size int) (domain.Window, error) {
	if series.IsEmpty() {
		return domain.Window{}, apperrors.NewEmptySeries(series.Source)
	}
	if size < 1 {
		return domain.Window{}, apperrors.NewInsufficientData(series.Source, 0, 1)
	}

	n := series.Len()
	if n < size {
		s.logger.WarnContext(ctx, "fewer data points than window size, using all available rows",
			slog.String("source", series.Source),
			slog.Int("rows", n),
			slog.Int("window_size", size))
		return domain.Window{
			Source: series.Source,
			Start:  0,
			Rows:   append([]domain.PriceRow(nil), series.Rows...),
		}, nil
	}

	start := s.rng.IntN(n - size + 1)

	s.logger.DebugContext(ctx, "window sampled",
		slog.String("source", series.Source),
		slog.Int("start", start),
		slog.Int("window_size", size),
		slog.Int("rows", n))

	return domain.Window{
		Source: series.Source,
		Start:  start,
		Rows:   append([]domain.PriceRow(nil), series.Rows[start:start+size]...),
	}, nil
}
