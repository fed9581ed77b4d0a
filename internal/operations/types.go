package operations

import (
	"time"

	"stockcast/internal/sources"
	"stockcast/pkg/contracts/domain"
)

// SourceStatus is the processing state of one source
type SourceStatus string

const (
	SourceStatusPending   SourceStatus = "pending"
	SourceStatusSucceeded SourceStatus = "succeeded"
	SourceStatusFailed    SourceStatus = "failed"
	SourceStatusCancelled SourceStatus = "cancelled"
)

// Pipeline steps, used to label the step a source failed in
const (
	StepLoad     = "load"
	StepSample   = "sample"
	StepPredict  = "predict"
	StepAssemble = "assemble"
	StepWrite    = "write"
)

// Options configures a Runner
type Options struct {
	// WindowSize is the number of consecutive rows sampled from each series
	WindowSize int
	// Workers bounds the number of sources processed at once. 1 is sequential.
	Workers int
}

// SourceResult is the outcome of one source
type SourceResult struct {
	Source     sources.Source
	Status     SourceStatus
	Step       string
	StockID    string
	Window     domain.Window
	Prediction domain.Prediction
	OutputPath string
	Err        error
	Duration   time.Duration
}

// Succeeded reports whether the source produced an output file
func (r SourceResult) Succeeded() bool {
	return r.Status == SourceStatusSucceeded
}

// BatchReport summarises a batch run. Results are in source order.
type BatchReport struct {
	RunID     string
	Mode      string
	Status    BatchStatus
	StartTime time.Time
	EndTime   time.Time
	Results   []SourceResult
	Skipped   []sources.Skip
}

// Processed returns the number of sources that were attempted
func (r *BatchReport) Processed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == SourceStatusSucceeded || res.Status == SourceStatusFailed {
			n++
		}
	}
	return n
}

// Succeeded returns the number of sources with an output file
func (r *BatchReport) Succeeded() int {
	return r.count(SourceStatusSucceeded)
}

// Failed returns the number of sources that failed
func (r *BatchReport) Failed() int {
	return r.count(SourceStatusFailed)
}

// Duration returns the wall time of the run
func (r *BatchReport) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// OutputPaths returns the files written by the run, in source order
func (r *BatchReport) OutputPaths() []string {
	var paths []string
	for _, res := range r.Results {
		if res.Succeeded() {
			paths = append(paths, res.OutputPath)
		}
	}
	return paths
}

func (r *BatchReport) count(status SourceStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}
