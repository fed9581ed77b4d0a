package operations

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	apperrors "stockcast/internal/errors"
	"stockcast/internal/infrastructure"
	"stockcast/internal/sources"
)

// BatchTracer provides OpenTelemetry instrumentation for batch runs
type BatchTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.BatchMetrics
}

// NewBatchTracer creates a tracer on the given telemetry providers
func NewBatchTracer(tel *infrastructure.Telemetry) (*BatchTracer, error) {
	if tel == nil {
		tel = infrastructure.NoopTelemetry()
	}
	metrics, err := infrastructure.CreateBatchMetrics(tel.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch metrics: %w", err)
	}
	return &BatchTracer{tracer: tel.Tracer, metrics: metrics}, nil
}

// TraceBatch creates a span for the whole run
func (bt *BatchTracer) TraceBatch(ctx context.Context, runID, mode string, limit int) (context.Context, trace.Span) {
	return bt.tracer.Start(ctx, fmt.Sprintf("batch.run.%s", mode),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("batch.run_id", runID),
			attribute.String("batch.mode", mode),
			attribute.Int("batch.limit", limit),
		),
	)
}

// TraceSource creates a span for one source
func (bt *BatchTracer) TraceSource(ctx context.Context, src sources.Source) (context.Context, trace.Span) {
	return bt.tracer.Start(ctx, "batch.source",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("source.key", src.Key),
			attribute.String("source.category", src.Category),
			attribute.String("source.path", src.Path),
		),
	)
}

// RecordSourceCompletion closes out a source span and records its metrics
func (bt *BatchTracer) RecordSourceCompletion(ctx context.Context, span trace.Span, mode string, result SourceResult) {
	attrs := []attribute.KeyValue{
		attribute.String("mode", mode),
		attribute.String("status", string(result.Status)),
	}
	if result.Err != nil {
		attrs = append(attrs, attribute.String("error_kind", string(apperrors.KindOf(result.Err))))
	}

	bt.metrics.SourcesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	bt.metrics.SourceDuration.Record(ctx, result.Duration.Seconds(), metric.WithAttributes(attrs...))

	span.SetAttributes(
		attribute.String("source.status", string(result.Status)),
		attribute.Float64("source.duration_seconds", result.Duration.Seconds()),
	)

	if result.Err != nil {
		span.RecordError(result.Err, trace.WithAttributes(
			attribute.String("error.kind", string(apperrors.KindOf(result.Err))),
			attribute.String("error.step", result.Step),
		))
		span.SetStatus(codes.Error, result.Err.Error())
		return
	}

	bt.metrics.PredictedRows.Add(ctx, int64(len(result.Prediction)), metric.WithAttributes(
		attribute.String("mode", mode),
	))
	span.SetAttributes(attribute.Int("source.window_size", result.Window.Len()))
	span.SetStatus(codes.Ok, "source processed")
}

// RecordBatchCompletion closes out the batch span
func (bt *BatchTracer) RecordBatchCompletion(span trace.Span, report *BatchReport) {
	span.SetAttributes(
		attribute.String("batch.status", string(report.Status)),
		attribute.Int("batch.processed", report.Processed()),
		attribute.Int("batch.succeeded", report.Succeeded()),
		attribute.Int("batch.failed", report.Failed()),
		attribute.Int("batch.skipped_categories", len(report.Skipped)),
		attribute.Float64("batch.duration_seconds", report.Duration().Seconds()),
	)

	if report.Status == BatchStatusCompleted {
		span.SetStatus(codes.Ok, "batch completed")
	} else {
		span.SetStatus(codes.Error, fmt.Sprintf("batch ended with status: %s", report.Status))
	}
}
