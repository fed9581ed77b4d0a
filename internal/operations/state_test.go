package operations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockcast/internal/sources"
)

func testPlan(keys ...string) sources.Plan {
	plan := sources.Plan{Skipped: []sources.Skip{{Category: "NYSE", Reason: sources.ErrNoFiles}}}
	for _, k := range keys {
		plan.Sources = append(plan.Sources, sources.Source{Key: k, Path: k + ".csv", OutputName: k + ".csv"})
	}
	return plan
}

func TestBatchState_Lifecycle(t *testing.T) {
	plan := testPlan("a", "b", "c")
	state := NewBatchState("run-1", "explicit", plan)
	assert.Equal(t, BatchStatusPending, state.Status)
	require.Equal(t, 3, state.Len())

	state.Start()
	assert.Equal(t, BatchStatusRunning, state.Status)

	// Results land in their own slot regardless of completion order
	state.SetResult(2, SourceResult{Source: plan.Sources[2], Status: SourceStatusFailed, Err: errors.New("boom")})
	state.SetResult(0, SourceResult{Source: plan.Sources[0], Status: SourceStatusSucceeded, OutputPath: "out/a.csv"})
	state.SetResult(1, SourceResult{Source: plan.Sources[1], Status: SourceStatusSucceeded, OutputPath: "out/b.csv"})
	state.Complete()

	report := state.Report()
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, "explicit", report.Mode)
	assert.Equal(t, BatchStatusCompleted, report.Status)
	assert.Equal(t, 3, report.Processed())
	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, []string{"out/a.csv", "out/b.csv"}, report.OutputPaths())
	assert.Len(t, report.Skipped, 1)
	assert.GreaterOrEqual(t, report.Duration(), time.Duration(0))
	assert.Nil(t, state.Err)
}

func TestBatchState_Cancel(t *testing.T) {
	plan := testPlan("a", "b")
	state := NewBatchState("run-2", "directory", plan)
	state.Start()
	state.SetResult(0, SourceResult{Source: plan.Sources[0], Status: SourceStatusSucceeded})
	state.Cancel(context.Canceled)

	report := state.Report()
	assert.Equal(t, BatchStatusCancelled, report.Status)
	assert.Equal(t, SourceStatusSucceeded, report.Results[0].Status)
	assert.Equal(t, SourceStatusCancelled, report.Results[1].Status)
	assert.Equal(t, 1, report.Processed())
	assert.ErrorIs(t, state.Err, context.Canceled)
}

func TestBatchState_ReportIsSnapshot(t *testing.T) {
	state := NewBatchState("run-4", "explicit", testPlan("a"))
	report := state.Report()

	state.SetResult(0, SourceResult{Status: SourceStatusFailed})
	assert.Equal(t, SourceStatusPending, report.Results[0].Status)
}
