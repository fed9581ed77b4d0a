// Command predictor samples a random window from each stock price series,
// extrapolates the next three prices and writes the result as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"stockcast/internal/config"
	"stockcast/internal/dataprocessing"
	"stockcast/internal/exporter"
	"stockcast/internal/forecast"
	"stockcast/internal/infrastructure"
	"stockcast/internal/operations"
	"stockcast/internal/recorder"
	"stockcast/internal/sources"
	"stockcast/pkg/contracts"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one batch and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	startTime := time.Now()
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	limit := fs.Int("n", config.DefaultFilesPerCategory, "number of sources to process per exchange (or from the source table)")
	mode := fs.String("mode", "", "source mode: directory or explicit")
	configPath := fs.String("config", "", "path to a YAML config file")
	seed := fs.Int64("seed", 0, "random seed for window sampling (0 = time-seeded)")
	workers := fs.Int("workers", 0, "number of sources processed concurrently")
	window := fs.Int("window", 0, "window size")
	baseDir := fs.String("base", "", "base directory for relative paths (defaults to the working directory)")
	showVersion := fs.Bool("version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	// Only flags given on the command line override file and env values
	var overrides []func(*config.Config)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			overrides = append(overrides, func(c *config.Config) { c.Sources.FilesPerCategory = *limit })
		case "mode":
			overrides = append(overrides, func(c *config.Config) { c.Sources.Mode = *mode })
		case "seed":
			overrides = append(overrides, func(c *config.Config) { c.Prediction.Seed = *seed })
		case "workers":
			overrides = append(overrides, func(c *config.Config) { c.Prediction.Workers = *workers })
		case "window":
			overrides = append(overrides, func(c *config.Config) { c.Prediction.WindowSize = *window })
		}
	})

	if err := config.LoadDotEnv(filepath.Join(*baseDir, ".env")); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath, overrides...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	paths, err := config.ResolvePaths(cfg, *baseDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	cfg.Logging.FilePath = paths.LogFile

	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize logger: %v\n", err)
		return 1
	}
	slog.SetDefault(logger)
	defer infrastructure.CloseLogFile()

	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to prepare directories", slog.String("error", err.Error()))
		return 1
	}
	paths.LogPathResolution(logger)

	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger, stdout)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	rec := openRecorder(cfg.Recorder, paths, logger)
	defer rec.Close()

	runSeed := uint64(cfg.Prediction.Seed)
	if runSeed == 0 {
		runSeed = uint64(time.Now().UnixNano())
	}
	logger.Info("Sampling seed selected", slog.Uint64("seed", runSeed))

	loader := dataprocessing.NewLoader(dataprocessing.ParseOptions{
		Header:  cfg.Sources.HasHeader(),
		Columns: cfg.Sources.Columns,
	}, logger)
	writer := exporter.NewSeriesExporter(paths.OutputDir, cfg.Output.BOM, logger)

	tracer, err := operations.NewBatchTracer(tel)
	if err != nil {
		logger.Error("Failed to create batch instruments", slog.String("error", err.Error()))
		return 1
	}

	runner, err := operations.NewRunner(
		operations.Options{WindowSize: cfg.Prediction.WindowSize, Workers: cfg.Prediction.Workers},
		loader,
		writer,
		forecast.NewSeededRand(runSeed),
		logger,
		operations.WithRecorder(rec),
		operations.WithTracer(tracer),
	)
	if err != nil {
		logger.Error("Failed to create runner", slog.String("error", err.Error()))
		return 1
	}

	discoverer, err := sources.New(cfg, paths)
	if err != nil {
		logger.Error("Failed to configure sources", slog.String("error", err.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runner.Run(ctx, discoverer, cfg.Sources.FilesPerCategory)
	if err != nil {
		logger.Error("Batch did not complete", slog.String("error", err.Error()))
		return 1
	}

	if sm, err := infrastructure.NewSystemMetrics(tel.Meter); err == nil {
		stats := sm.Collect(ctx, startTime)
		logger.LogAttrs(ctx, slog.LevelDebug, "Process stats", stats.LogAttrs()...)
	}

	if err := tel.WriteMetrics(paths.Resolve(cfg.Telemetry.MetricsFile)); err != nil {
		logger.Warn("Failed to write metrics", slog.String("error", err.Error()))
	}

	logger.Debug("Run finished",
		slog.String("version", contracts.Version),
		slog.String("run_id", report.RunID),
		slog.Int("outputs", len(report.OutputPaths())))
	return 0
}

// openRecorder opens the SQLite history store when configured. A store that
// cannot be opened is logged and replaced by a no-op recorder.
func openRecorder(cfg config.RecorderConfig, paths *config.Paths, logger *slog.Logger) recorder.Recorder {
	if cfg.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}

	rec, err := recorder.NewSQLiteRecorder(paths.Resolve(cfg.SQLitePath), logger)
	if err != nil {
		logger.Warn("Prediction history disabled",
			slog.String("path", cfg.SQLitePath),
			slog.String("error", err.Error()))
		return recorder.NewNoopRecorder()
	}
	return rec
}
