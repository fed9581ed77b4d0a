// Package recorder keeps a history of per-source prediction outcomes.
//
// The SQLite recorder is enabled by recorder.sqlite_path. When no path is
// configured the NoopRecorder is used and nothing is persisted.
package recorder

import (
	"context"
	"time"

	"stockcast/pkg/contracts/domain"
)

// Outcome statuses
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Outcome is one source's result within a batch run
type Outcome struct {
	RunID       string
	SourceKey   string
	SourcePath  string
	StockID     string
	Status      string
	ErrorKind   string
	Error       string
	WindowStart int
	WindowSize  int
	Prediction  domain.Prediction
	OutputPath  string
	RecordedAt  time.Time
}

// Recorder persists outcomes
type Recorder interface {
	RecordOutcome(ctx context.Context, outcome *Outcome) error
	Close() error
}
