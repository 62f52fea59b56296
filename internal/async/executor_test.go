package async

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsWorkAndFollowUp(t *testing.T) {
	e := NewExecutor(2)
	defer e.Stop()

	done := make(chan int, 1)
	_, err := Submit(e, func(ctx context.Context) int {
		return 42
	}, func(result int) {
		done <- result
	})
	require.NoError(t, err)

	select {
	case result := <-done:
		assert.Equal(t, 42, result)
	case <-time.After(5 * time.Second):
		t.Fatal("follow-up never ran")
	}
}

func TestFollowUpsNeverOverlap(t *testing.T) {
	e := NewExecutor(4)
	defer e.Stop()

	const tasks = 50
	var inFlight, maxInFlight int32
	var wg sync.WaitGroup
	wg.Add(tasks)

	for i := 0; i < tasks; i++ {
		_, err := Submit(e, func(ctx context.Context) int {
			return 0
		}, func(int) {
			defer wg.Done()
			n := atomic.AddInt32(&inFlight, 1)
			for {
				old := atomic.LoadInt32(&maxInFlight)
				if n <= old || atomic.CompareAndSwapInt32(&maxInFlight, old, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		})
		require.NoError(t, err)
	}

	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight), "follow-ups must run one at a time")
}

func TestCancelReachesWork(t *testing.T) {
	e := NewExecutor(1)
	defer e.Stop()

	started := make(chan struct{})
	finished := make(chan struct{})
	cancel, err := Submit(e, func(ctx context.Context) struct{} {
		close(started)
		<-ctx.Done()
		return struct{}{}
	}, func(struct{}) {
		close(finished)
	})
	require.NoError(t, err)

	<-started
	cancel()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled work never returned")
	}
}

func TestSubmitQueueFull(t *testing.T) {
	e := NewExecutor(1)
	defer e.Stop()

	release := make(chan struct{})
	defer close(release)

	// Occupy the single worker, then saturate the queue.
	_, err := Submit(e, func(ctx context.Context) struct{} {
		<-release
		return struct{}{}
	}, func(struct{}) {})
	require.NoError(t, err)

	sawFull := false
	for i := 0; i < 2*defaultQueueSize; i++ {
		if _, err := Submit(e, func(ctx context.Context) struct{} {
			return struct{}{}
		}, func(struct{}) {}); err != nil {
			assert.ErrorIs(t, err, ErrQueueFull)
			sawFull = true
			break
		}
	}
	assert.True(t, sawFull, "saturating the queue must eventually fail fast")
}

func TestStop(t *testing.T) {
	e := NewExecutor(2)
	assert.True(t, e.IsRunning())

	e.Stop()
	assert.False(t, e.IsRunning())
}

func TestWorkPanicDoesNotKillExecutor(t *testing.T) {
	e := NewExecutor(1)
	defer e.Stop()

	_, err := Submit(e, func(ctx context.Context) struct{} {
		panic("boom")
	}, func(struct{}) {})
	require.NoError(t, err)

	done := make(chan struct{})
	_, err = Submit(e, func(ctx context.Context) struct{} {
		return struct{}{}
	}, func(struct{}) {
		close(done)
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("executor stopped processing after a panic")
	}
}
