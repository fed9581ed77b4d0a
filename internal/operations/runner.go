package operations

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "stockcast/internal/errors"
	"stockcast/internal/forecast"
	"stockcast/internal/infrastructure"
	"stockcast/internal/recorder"
	"stockcast/internal/sources"
)

// Runner drives the load, sample, predict, assemble and write steps for
// every source of a batch. A failing source is recorded and skipped; it
// never stops the rest of the batch.
type Runner struct {
	opts     Options
	loader   SeriesLoader
	writer   SeriesWriter
	rng      *rand.Rand
	recorder recorder.Recorder
	tracer   *BatchTracer
	logger   *slog.Logger
}

// RunnerOption customises a Runner
type RunnerOption func(*Runner)

// WithRecorder stores every source outcome in rec
func WithRecorder(rec recorder.Recorder) RunnerOption {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithTracer instruments the runner with bt
func WithTracer(bt *BatchTracer) RunnerOption {
	return func(r *Runner) {
		if bt != nil {
			r.tracer = bt
		}
	}
}

// NewRunner creates a runner. rng seeds the per-source window offsets.
func NewRunner(opts Options, loader SeriesLoader, writer SeriesWriter, rng *rand.Rand, logger *slog.Logger, options ...RunnerOption) (*Runner, error) {
	if opts.WindowSize < 1 {
		return nil, apperrors.NewConfigError(fmt.Sprintf("window size must be at least 1, got %d", opts.WindowSize), nil)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if rng == nil {
		rng = forecast.NewSeededRand(uint64(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	r := &Runner{
		opts:     opts,
		loader:   loader,
		writer:   writer,
		rng:      rng,
		recorder: recorder.NewNoopRecorder(),
		logger:   infrastructure.WithComponent(logger, "runner"),
	}
	for _, opt := range options {
		opt(r)
	}

	if r.tracer == nil {
		bt, err := NewBatchTracer(nil)
		if err != nil {
			return nil, err
		}
		r.tracer = bt
	}

	return r, nil
}

// Run processes at most limit sources per category from d.
// Per-source failures are reported in the BatchReport. An error is returned
// only when discovery fails or ctx is cancelled, in which case the report
// still describes the sources that finished.
func (r *Runner) Run(ctx context.Context, d sources.Discoverer, limit int) (*BatchReport, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)
	mode := d.Mode()

	ctx, span := r.tracer.TraceBatch(ctx, runID, mode, limit)
	defer span.End()

	plan, err := d.Discover(ctx, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("source discovery failed: %w", err)
	}

	state := NewBatchState(runID, mode, plan)
	state.Start()
	r.logBatchStart(ctx, mode, limit, plan)

	for _, skip := range plan.Skipped {
		r.logSkipped(ctx, skip)
	}

	// Seeds are drawn in source order before any work starts, so each
	// source sees the same offsets however the pool schedules it.
	seeds := make([]uint64, len(plan.Sources))
	for i := range seeds {
		seeds[i] = r.rng.Uint64()
	}

	runErr := r.dispatch(ctx, plan, seeds, state)
	if runErr != nil {
		state.Cancel(runErr)
	} else {
		state.Complete()
	}

	report := state.Report()
	for _, result := range report.Results {
		r.logSourceOutcome(ctx, result)
		r.record(ctx, runID, result)
	}

	r.tracer.RecordBatchCompletion(span, report)
	r.logBatchComplete(ctx, report)

	if runErr != nil {
		return report, fmt.Errorf("batch interrupted: %w", runErr)
	}
	return report, nil
}

// dispatch runs every planned source, sequentially or on a bounded pool
func (r *Runner) dispatch(ctx context.Context, plan sources.Plan, seeds []uint64, state *BatchState) error {
	progress := NewProgressTracker(state.Len())
	category := ""

	if r.opts.Workers == 1 {
		for i, src := range plan.Sources {
			if err := ctx.Err(); err != nil {
				return err
			}
			if src.Category != "" && src.Category != category {
				category = src.Category
				r.logCategoryStart(ctx, category)
			}
			state.SetResult(i, r.processSource(ctx, src, seeds[i], state.Mode))
			r.logProgress(ctx, progress)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	for i, src := range plan.Sources {
		if ctx.Err() != nil {
			break
		}
		if src.Category != "" && src.Category != category {
			category = src.Category
			r.logCategoryStart(ctx, category)
		}
		g.Go(func() error {
			// Source failures are kept in the state; the group only stops on cancellation.
			if err := gctx.Err(); err != nil {
				return err
			}
			state.SetResult(i, r.processSource(gctx, src, seeds[i], state.Mode))
			r.logProgress(gctx, progress)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// processSource runs the pipeline steps for one source
func (r *Runner) processSource(ctx context.Context, src sources.Source, seed uint64, mode string) (result SourceResult) {
	started := time.Now()
	ctx, span := r.tracer.TraceSource(ctx, src)
	defer span.End()

	result = SourceResult{Source: src, Status: SourceStatusPending}
	defer func() {
		result.Duration = time.Since(started)
		r.tracer.RecordSourceCompletion(ctx, span, mode, result)
	}()

	fail := func(step string, err error) SourceResult {
		result.Status = SourceStatusFailed
		result.Step = step
		result.Err = apperrors.WithSource(err, src.Path)
		return result
	}

	r.logger.DebugContext(ctx, "Processing source",
		slog.String("source", src.Key),
		slog.String("path", src.Path))

	series, err := r.loader.Load(ctx, src.Path)
	if err != nil {
		return fail(StepLoad, err)
	}

	sampler := forecast.NewSampler(forecast.NewSeededRand(seed), r.logger)
	window, err := sampler.Sample(ctx, series, r.opts.WindowSize)
	if err != nil {
		return fail(StepSample, err)
	}
	result.Window = window

	prediction, err := forecast.Predict(window)
	if err != nil {
		return fail(StepPredict, err)
	}
	result.Prediction = prediction

	if idx := forecast.OutOfOrder(window); len(idx) > 0 {
		r.logger.WarnContext(ctx, "window timestamps are not increasing",
			slog.String("source", src.Key),
			slog.Any("rows", idx))
	}

	out, err := forecast.Assemble(window, prediction)
	if err != nil {
		return fail(StepAssemble, err)
	}
	result.StockID = out.Rows[0].StockID

	path, err := r.writer.Export(src.OutputName, out)
	if err != nil {
		return fail(StepWrite, err)
	}

	result.Status = SourceStatusSucceeded
	result.OutputPath = path
	return result
}

func (r *Runner) logProgress(ctx context.Context, p *ProgressTracker) {
	p.Increment()
	current, total, pct := p.GetProgress()
	r.logger.DebugContext(ctx, "batch_progress",
		slog.Int("done", current),
		slog.Int("total", total),
		slog.Float64("percent", pct),
		slog.String("eta", p.GetETA()),
		slog.Bool("complete", p.IsComplete()))
}

// record stores an outcome; recorder failures are logged and ignored
func (r *Runner) record(ctx context.Context, runID string, result SourceResult) {
	if result.Status == SourceStatusCancelled || result.Status == SourceStatusPending {
		return
	}

	outcome := &recorder.Outcome{
		RunID:       runID,
		SourceKey:   result.Source.Key,
		SourcePath:  result.Source.Path,
		StockID:     result.StockID,
		Status:      recorder.StatusSucceeded,
		WindowStart: result.Window.Start,
		WindowSize:  result.Window.Len(),
		Prediction:  result.Prediction,
		OutputPath:  result.OutputPath,
	}
	if result.Err != nil {
		outcome.Status = recorder.StatusFailed
		outcome.ErrorKind = string(apperrors.KindOf(result.Err))
		outcome.Error = result.Err.Error()
	}

	if err := r.recorder.RecordOutcome(context.WithoutCancel(ctx), outcome); err != nil {
		r.logger.WarnContext(ctx, "failed to record outcome",
			slog.String("source", result.Source.Key),
			slog.String("error", err.Error()))
	}
}
