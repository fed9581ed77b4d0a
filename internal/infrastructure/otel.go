package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"stockcast/internal/config"
	"stockcast/pkg/contracts"
)

const (
	ServiceName = "stockcast-predictor"
	MeterName   = "stockcast"
)

// Telemetry holds the trace and metric providers for one process.
// Disabled signals are backed by no-op providers so callers never nil-check.
type Telemetry struct {
	Tracer   trace.Tracer
	Meter    metric.Meter
	Registry *prometheus.Registry

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metricsFile    string
	logger         *slog.Logger
}

// InitializeTelemetry sets up tracing and metrics according to cfg.
// Spans are written to traceOut when the stdout exporter is selected.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger, traceOut io.Writer) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}
	if traceOut == nil {
		traceOut = os.Stdout
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(contracts.Version),
		attribute.String("service.instance.id", generateInstanceID()),
	)

	t := &Telemetry{
		Tracer:      tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:       metricnoop.NewMeterProvider().Meter(MeterName),
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	switch cfg.Tracing {
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(traceOut), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		t.Tracer = t.tracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(contracts.Version))
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.Tracing)
	}

	switch cfg.Metrics {
	case "prometheus":
		t.Registry = prometheus.NewRegistry()
		exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		t.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		t.Meter = t.meterProvider.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version))
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported metric exporter: %s", cfg.Metrics)
	}

	logger.Debug("Telemetry initialized",
		slog.String("tracing", cfg.Tracing),
		slog.String("metrics", cfg.Metrics))

	return t, nil
}

// NoopTelemetry returns telemetry with every signal disabled
func NoopTelemetry() *Telemetry {
	return &Telemetry{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
		logger: GetLogger(),
	}
}

// WriteMetrics dumps the prometheus registry in text exposition format.
// It is a no-op when metrics are disabled or no file is configured.
func (t *Telemetry) WriteMetrics(path string) error {
	if path == "" {
		path = t.metricsFile
	}
	if t.Registry == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	t.logger.Info("Metrics written", slog.String("path", path))
	return nil
}

// Shutdown flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}
	return nil
}

// BatchMetrics are the instruments recorded by the batch runner
type BatchMetrics struct {
	SourcesTotal   metric.Int64Counter
	SourceDuration metric.Float64Histogram
	PredictedRows  metric.Int64Counter
}

// CreateBatchMetrics registers the batch instruments on meter
func CreateBatchMetrics(meter metric.Meter) (*BatchMetrics, error) {
	sourcesTotal, err := meter.Int64Counter(
		"predictor_sources_total",
		metric.WithDescription("Sources processed, by mode and outcome"),
	)
	if err != nil {
		return nil, err
	}

	sourceDuration, err := meter.Float64Histogram(
		"predictor_source_duration_seconds",
		metric.WithDescription("Time spent on one source from load to write"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	predictedRows, err := meter.Int64Counter(
		"predictor_predicted_rows_total",
		metric.WithDescription("Synthetic rows written to output files"),
	)
	if err != nil {
		return nil, err
	}

	return &BatchMetrics{
		SourcesTotal:   sourcesTotal,
		SourceDuration: sourceDuration,
		PredictedRows:  predictedRows,
	}, nil
}

// generateInstanceID identifies this process in exported telemetry
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}
