package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ventureforge/forge/internal/db/models"
)

func newTestDriver(store *fakeStore, interval, backoff time.Duration) *Driver {
	executor := NewExecutor(store, &fakeProvider{}, time.Second)
	dispatcher := NewDispatcher(executor, 2)
	return NewDriver(store, dispatcher, interval, backoff)
}

func (s *fakeStore) listCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

func TestDriverStartStop(t *testing.T) {
	store := newFakeStore()
	driver := newTestDriver(store, 5*time.Millisecond, 5*time.Millisecond)

	require.NoError(t, driver.Start())

	assert.Eventually(t, func() bool {
		return store.listCallCount() >= 2
	}, time.Second, time.Millisecond, "driver should keep cycling until stopped")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, driver.Stop(ctx))

	calls := store.listCallCount()
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, calls, store.listCallCount(), "no cycles may run after Stop returns")
}

func TestDriverDoubleStartFails(t *testing.T) {
	store := newFakeStore()
	driver := newTestDriver(store, 5*time.Millisecond, 5*time.Millisecond)

	require.NoError(t, driver.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = driver.Stop(ctx)
	}()

	assert.Error(t, driver.Start())
}

func TestDriverStopWithoutStartIsANoop(t *testing.T) {
	driver := newTestDriver(newFakeStore(), 5*time.Millisecond, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, driver.Stop(ctx))
}

func TestDriverRestartAfterStop(t *testing.T) {
	store := newFakeStore()
	driver := newTestDriver(store, 5*time.Millisecond, 5*time.Millisecond)

	require.NoError(t, driver.Start())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, driver.Stop(ctx))

	require.NoError(t, driver.Start())
	require.NoError(t, driver.Stop(ctx))
}

func TestDriverBacksOffAfterFailedCycle(t *testing.T) {
	store := newFakeStore()
	store.eligibleErr = fmt.Errorf("database unavailable")
	driver := newTestDriver(store, 5*time.Millisecond, time.Minute)

	require.NoError(t, driver.Start())
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, driver.Stop(ctx))

	// With the backoff in effect only the first cycle runs within the window.
	assert.Equal(t, 1, store.listCallCount())
}

func TestDriverDispatchesEligibleJobs(t *testing.T) {
	store := newFakeStore()
	store.eligible = []models.Job{testJob(1, models.FrequencyOneTime)}
	driver := newTestDriver(store, time.Minute, time.Minute)

	require.NoError(t, driver.Start())

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.terminals) == 1
	}, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, driver.Stop(ctx))

	assert.Equal(t, models.JobStatusCompleted, store.lastTerminal(t).status)
}

func TestDriverTriggerJobRunsOutOfCycle(t *testing.T) {
	store := newFakeStore()
	driver := newTestDriver(store, time.Minute, time.Minute)
	require.NoError(t, driver.Start())

	driver.TriggerJob(testJob(42, models.FrequencyOneTime))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, driver.Stop(ctx), "Stop must wait for triggered runs")

	assert.Equal(t, models.JobStatusCompleted, store.lastTerminal(t).status)
	assert.True(t, store.claimed[42])
}

func TestDriverTriggerJobSkipsAlreadyRunningJob(t *testing.T) {
	store := newFakeStore()
	store.claimed[42] = true
	driver := newTestDriver(store, time.Minute, time.Minute)
	require.NoError(t, driver.Start())

	driver.TriggerJob(testJob(42, models.FrequencyOneTime))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, driver.Stop(ctx))

	assert.Empty(t, store.terminals, "an already claimed job must be skipped silently")
}
