// Package forecast turns a price series into a three day extrapolation.
//
// The pipeline for one series is:
//
//	window, err := sampler.Sample(ctx, series, 10)     // random contiguous slice
//	prediction, err := forecast.Predict(window)        // second-highest price heuristic
//	output, err := forecast.Assemble(window, prediction)
//
// # Extrapolation
//
// Predict looks at two values: the second-highest price in the window (p)
// and the price of the last row in window order (n). It returns
//
//	day 1: p
//	day 2: n + (p - n) / 2
//	day 3: day2 + (p - day2) / 4
//
// The heuristic is a fixed arithmetic contract, not a statistical model.
//
// # Determinism
//
// Sampler draws from the *rand.Rand it is constructed with. Seed it to make
// window selection reproducible. Predict and Assemble are pure.
package forecast
