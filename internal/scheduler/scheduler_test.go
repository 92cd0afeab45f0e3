package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-hunter/internal/models"
)

type fakeExtractor struct {
	calls   []string
	failing map[string]bool
}

func (f *fakeExtractor) ExtractRace(ctx context.Context, raceID string, includeOdds bool) (*models.RaceResult, error) {
	f.calls = append(f.calls, raceID)
	if f.failing[raceID] {
		return nil, fmt.Errorf("extraction failed for %s", raceID)
	}
	return models.NewRaceResult("https://example.com", raceID), nil
}

func TestRunOnce(t *testing.T) {
	extractor := &fakeExtractor{}
	var sunk []string
	sink := func(raceID string, result *models.RaceResult) {
		sunk = append(sunk, raceID)
		assert.Equal(t, raceID, result.RaceID)
	}

	s := New(extractor, sink, []string{"A", "B", "C"}, 0, true, nil)
	s.RunOnce()

	// races run strictly in order
	assert.Equal(t, []string{"A", "B", "C"}, extractor.calls)
	assert.Equal(t, []string{"A", "B", "C"}, sunk)
	assert.False(t, s.LastSuccess().IsZero())
}

func TestRunOnceContinuesPastFailures(t *testing.T) {
	extractor := &fakeExtractor{failing: map[string]bool{"B": true}}
	var sunk []string
	sink := func(raceID string, result *models.RaceResult) {
		sunk = append(sunk, raceID)
	}

	s := New(extractor, sink, []string{"A", "B", "C"}, 0, false, nil)
	s.RunOnce()

	assert.Equal(t, []string{"A", "B", "C"}, extractor.calls)
	assert.Equal(t, []string{"A", "C"}, sunk)
	assert.False(t, s.LastSuccess().IsZero())
}

func TestRunOnceAllFailuresLeaveNoSuccess(t *testing.T) {
	extractor := &fakeExtractor{failing: map[string]bool{"A": true}}

	s := New(extractor, nil, []string{"A"}, 0, false, nil)
	s.RunOnce()

	assert.True(t, s.LastSuccess().IsZero())
}

func TestScheduleRejectsBadExpression(t *testing.T) {
	s := New(&fakeExtractor{}, nil, []string{"A"}, 0, false, nil)
	assert.Error(t, s.Schedule("every five minutes"))
}

func TestStartStopLifecycle(t *testing.T) {
	s := New(&fakeExtractor{}, nil, []string{"A"}, 0, false, nil)

	// cannot start before scheduling
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())

	require.NoError(t, s.Schedule("*/5 * * * *"))
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.False(t, s.NextRun().IsZero())

	// double start rejected
	assert.Error(t, s.Start())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRun().IsZero())

	// stopping again is a no-op
	require.NoError(t, s.Stop())
}

type blockingExtractor struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingExtractor) ExtractRace(ctx context.Context, raceID string, includeOdds bool) (*models.RaceResult, error) {
	b.entered <- struct{}{}
	<-b.release
	return models.NewRaceResult("https://example.com", raceID), nil
}

func TestStopWaitsForRunningSweep(t *testing.T) {
	extractor := &blockingExtractor{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := New(extractor, nil, []string{"A"}, 0, false, nil)
	require.NoError(t, s.Schedule("@every 1s"))
	require.NoError(t, s.Start())

	select {
	case <-extractor.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep never started")
	}

	stopped := make(chan error, 1)
	go func() { stopped <- s.Stop() }()

	// Stop waits for the in-flight sweep rather than returning early.
	select {
	case <-stopped:
		t.Fatal("Stop returned while a sweep was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(extractor.release)

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the sweep finished")
	}

	assert.False(t, s.IsRunning())
	assert.False(t, s.LastSuccess().IsZero())
}

func TestScheduleWhileRunningRejected(t *testing.T) {
	s := New(&fakeExtractor{}, nil, []string{"A"}, 0, false, nil)
	require.NoError(t, s.Schedule("*/5 * * * *"))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.Schedule("*/10 * * * *"))
}

func TestRaceDelayBetweenRaces(t *testing.T) {
	extractor := &fakeExtractor{}
	s := New(extractor, nil, []string{"A", "B"}, 30*time.Millisecond, false, nil)

	start := time.Now()
	s.RunOnce()
	elapsed := time.Since(start)

	assert.Equal(t, []string{"A", "B"}, extractor.calls)
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}
