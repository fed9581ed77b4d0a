// Package operations runs prediction batches.
//
// A Runner takes the ordered plan produced by a sources.Discoverer and pushes
// every source through the same steps:
//
//	load -> sample -> predict -> assemble -> write
//
// Each source is isolated. A failure in any step is recorded in that source's
// SourceResult, logged with its error kind, and the batch moves on. Run only
// returns an error when discovery fails or the context is cancelled.
//
// # Concurrency
//
// Options.Workers = 1 processes sources one after another. Larger values use a
// bounded errgroup pool. Window offsets are drawn from per-source generators
// seeded in source order before dispatch, and outcome log lines are written in
// source order after the pool drains, so a seeded run produces the same files
// and the same log sequence regardless of worker count.
//
// # Observability
//
// Runs carry a UUID run id (the logger's trace_id), one span per batch and per
// source, and the predictor_* counters and histogram from infrastructure.
// Outcomes can be persisted with a recorder.Recorder.
//
// Example usage:
//
//	runner, err := operations.NewRunner(operations.Options{WindowSize: 10, Workers: 1},
//		loader, writer, forecast.NewSeededRand(seed), logger,
//		operations.WithRecorder(rec))
//	report, err := runner.Run(ctx, discoverer, 1)
package operations
