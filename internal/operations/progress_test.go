package operations

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	p := NewProgressTracker(4)
	assert.Equal(t, "calculating...", p.GetETA())
	assert.False(t, p.IsComplete())

	assert.Equal(t, 1, p.Increment())
	current, total, pct := p.GetProgress()
	assert.Equal(t, 1, current)
	assert.Equal(t, 4, total)
	assert.InDelta(t, 25.0, pct, 1e-9)
	assert.Contains(t, p.GetETA(), "seconds")

	p.Increment()
	p.Increment()
	p.Increment()
	assert.True(t, p.IsComplete())
}

func TestProgressTracker_ETAUnits(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		elapsed time.Duration
		want    string
	}{
		{"seconds", 11, time.Second, "seconds"},
		{"minutes", 101, time.Second, "minutes"},
		{"hours", 101, time.Minute, "hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgressTracker(tt.total)
			p.StartTime = time.Now().Add(-tt.elapsed)
			p.Increment()
			assert.Contains(t, p.GetETA(), tt.want)
		})
	}
}

func TestProgressTracker_Concurrent(t *testing.T) {
	p := NewProgressTracker(50)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Increment()
		}()
	}
	wg.Wait()

	current, _, pct := p.GetProgress()
	assert.Equal(t, 50, current)
	assert.InDelta(t, 100.0, pct, 1e-9)
	assert.True(t, p.IsComplete())
}

func TestProgressTracker_EmptyBatch(t *testing.T) {
	p := NewProgressTracker(0)
	_, _, pct := p.GetProgress()
	assert.Zero(t, pct)
	assert.True(t, p.IsComplete())
}
