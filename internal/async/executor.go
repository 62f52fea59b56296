// Package async runs render work on a pool of background workers and
// delivers each follow-up to a single completion loop, the way a UI
// framework marshals results back onto its main thread.
package async

import (
	"context"
	"errors"
	"log"
	"runtime/debug"
	"sync"
)

// ErrQueueFull is returned by Submit when the background queue is saturated.
var ErrQueueFull = errors.New("async: task queue is full")

const defaultQueueSize = 100

// Executor owns the worker goroutines and the completion loop. Background
// functions may run concurrently with each other; follow-ups run strictly
// one at a time, in completion order.
type Executor struct {
	taskQueue   chan func()
	completions chan func()

	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewExecutor starts an executor with the given number of workers.
func NewExecutor(numberOfWorkers int) *Executor {
	if numberOfWorkers <= 0 {
		numberOfWorkers = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	e := &Executor{
		taskQueue:   make(chan func(), defaultQueueSize),
		completions: make(chan func(), defaultQueueSize),
		ctx:         ctx,
		cancel:      cancel,
	}

	for i := 0; i < numberOfWorkers; i++ {
		e.waitGroup.Add(1)
		go e.worker()
	}

	e.waitGroup.Add(1)
	go e.completionLoop()

	return e
}

func (e *Executor) worker() {
	defer e.waitGroup.Done()

	for {
		select {
		case <-e.ctx.Done():
			return
		case task, ok := <-e.taskQueue:
			if !ok {
				return
			}
			runRecovered(task)
		}
	}
}

func (e *Executor) completionLoop() {
	defer e.waitGroup.Done()

	for {
		select {
		case <-e.ctx.Done():
			return
		case followUp, ok := <-e.completions:
			if !ok {
				return
			}
			runRecovered(followUp)
		}
	}
}

func runRecovered(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("async: recovered panic: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
}

// Submit schedules work on a background worker and, once it returns, its
// follow-up on the completion loop. The returned cancel func signals
// cooperative cancellation through the context passed to work; it does not
// interrupt work already running.
func Submit[T any](e *Executor, work func(ctx context.Context) T, followUp func(T)) (context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(e.ctx)

	wrapped := func() {
		defer cancel()
		result := work(ctx)
		select {
		case e.completions <- func() { followUp(result) }:
		case <-e.ctx.Done():
		}
	}

	select {
	case e.taskQueue <- wrapped:
		return cancel, nil
	default:
		cancel()
		return nil, ErrQueueFull
	}
}

// Stop discards queued tasks and stops the workers after any in-flight
// task finishes.
func (e *Executor) Stop() {
cleanup:
	for {
		select {
		case <-e.taskQueue:
		default:
			break cleanup
		}
	}

	e.cancel()
	e.waitGroup.Wait()
}

// IsRunning reports whether the executor is still accepting work.
func (e *Executor) IsRunning() bool {
	select {
	case <-e.ctx.Done():
		return false
	default:
		return true
	}
}
