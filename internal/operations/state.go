package operations

import (
	"sync"
	"time"

	"stockcast/internal/sources"
)

// BatchStatus represents the overall status of a batch run
type BatchStatus string

const (
	BatchStatusPending   BatchStatus = "pending"
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusCancelled BatchStatus = "cancelled"
)

// BatchState tracks a batch run while workers report results into it.
// Each source owns one result slot, so the final order never depends on
// which worker finished first.
type BatchState struct {
	mu sync.RWMutex

	ID        string
	Mode      string
	Status    BatchStatus
	StartTime time.Time
	EndTime   *time.Time
	Err       error

	results []SourceResult
	skipped []sources.Skip
}

// NewBatchState creates a pending state with one slot per planned source
func NewBatchState(id, mode string, plan sources.Plan) *BatchState {
	results := make([]SourceResult, len(plan.Sources))
	for i, src := range plan.Sources {
		results[i] = SourceResult{Source: src, Status: SourceStatusPending}
	}
	return &BatchState{
		ID:        id,
		Mode:      mode,
		Status:    BatchStatusPending,
		StartTime: time.Now(),
		results:   results,
		skipped:   append([]sources.Skip(nil), plan.Skipped...),
	}
}

// Start marks the batch as running
func (s *BatchState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = BatchStatusRunning
	s.StartTime = time.Now()
}

// SetResult stores the outcome of source i
func (s *BatchState) SetResult(i int, result SourceResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[i] = result
}

// Len returns the number of planned sources
func (s *BatchState) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// Complete marks the batch as completed
func (s *BatchState) Complete() {
	s.finish(BatchStatusCompleted, nil)
}

// Cancel marks the batch as cancelled. Sources that never ran keep the
// cancelled status.
func (s *BatchState) Cancel(err error) {
	s.mu.Lock()
	for i := range s.results {
		if s.results[i].Status == SourceStatusPending {
			s.results[i].Status = SourceStatusCancelled
		}
	}
	s.mu.Unlock()
	s.finish(BatchStatusCancelled, err)
}

func (s *BatchState) finish(status BatchStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = status
	s.Err = err
}

// Report snapshots the state into a BatchReport
func (s *BatchState) Report() *BatchReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := &BatchReport{
		RunID:     s.ID,
		Mode:      s.Mode,
		Status:    s.Status,
		StartTime: s.StartTime,
		EndTime:   time.Now(),
		Results:   append([]SourceResult(nil), s.results...),
		Skipped:   append([]sources.Skip(nil), s.skipped...),
	}
	if s.EndTime != nil {
		report.EndTime = *s.EndTime
	}
	return report
}
