package operations

import (
	"context"
	"errors"
	"log/slog"

	apperrors "stockcast/internal/errors"
	"stockcast/internal/sources"
)

// logBatchStart logs the start of a batch run
func (r *Runner) logBatchStart(ctx context.Context, mode string, limit int, plan sources.Plan) {
	r.logger.InfoContext(ctx, "batch_start",
		slog.String("mode", mode),
		slog.Int("limit", limit),
		slog.Int("sources", len(plan.Sources)),
		slog.Int("window_size", r.opts.WindowSize),
		slog.Int("workers", r.opts.Workers))
}

// logSkipped logs a category that produced no sources
func (r *Runner) logSkipped(ctx context.Context, skip sources.Skip) {
	if errors.Is(skip.Reason, sources.ErrNoFiles) {
		r.logger.WarnContext(ctx, "No files found in directory",
			slog.String("exchange", skip.Category))
		return
	}
	r.logger.ErrorContext(ctx, "Exchange directory unavailable",
		slog.String("exchange", skip.Category),
		slog.String("error_kind", string(apperrors.KindOf(skip.Reason))),
		slog.String("error", skip.Reason.Error()))
}

// logCategoryStart logs the first source of a new exchange
func (r *Runner) logCategoryStart(ctx context.Context, category string) {
	r.logger.InfoContext(ctx, "Processing exchange", slog.String("exchange", category))
}

// logSourceOutcome logs the result of one source
func (r *Runner) logSourceOutcome(ctx context.Context, result SourceResult) {
	switch result.Status {
	case SourceStatusSucceeded:
		r.logger.InfoContext(ctx, "Predictions saved",
			slog.String("source", result.Source.Key),
			slog.String("stock_id", result.StockID),
			slog.String("output", result.OutputPath),
			slog.Int("window_start", result.Window.Start),
			slog.Int("window_size", result.Window.Len()),
			slog.Any("prediction", result.Prediction[:]),
			slog.Duration("duration", result.Duration))
	case SourceStatusFailed:
		r.logger.ErrorContext(ctx, "Skipping source due to processing failure",
			slog.String("source", result.Source.Key),
			slog.String("step", result.Step),
			slog.String("error_kind", string(apperrors.KindOf(result.Err))),
			slog.String("error", result.Err.Error()))
	case SourceStatusCancelled:
		r.logger.WarnContext(ctx, "Source not processed, batch cancelled",
			slog.String("source", result.Source.Key))
	}
}

// logBatchComplete logs the run summary
func (r *Runner) logBatchComplete(ctx context.Context, report *BatchReport) {
	r.logger.InfoContext(ctx, "batch_complete",
		slog.String("status", string(report.Status)),
		slog.Int("processed", report.Processed()),
		slog.Int("succeeded", report.Succeeded()),
		slog.Int("failed", report.Failed()),
		slog.Int("skipped_exchanges", len(report.Skipped)),
		slog.Duration("duration", report.Duration()))
}
