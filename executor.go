package pregel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrExecutorClosed is returned when tasks are submitted to a closed executor.
var ErrExecutorClosed = errors.New("executor closed")

// Executor runs a batch of tasks to completion. The engine calls RunAll once
// for the init phase and once per superstep; RunAll is the superstep barrier.
type Executor interface {
	// RunAll blocks until every submitted task returned and reports the first
	// failure in task order. Tasks that were never started because ctx ended
	// are reported as ctx.Err().
	RunAll(ctx context.Context, tasks []func() error) error
}

// WorkerPool manages a fixed pool of goroutines reused across supersteps.
// This avoids spawning one goroutine per partition and superstep.
type WorkerPool struct {
	numWorkers int
	workCh     chan func() // Channel carries work closures
	stopCh     chan struct{}
	wg         sync.WaitGroup
	closed     atomic.Bool // Tracks if pool is closed
	submitMu   sync.RWMutex
}

var _ Executor = (*WorkerPool)(nil)

// NewWorkerPool creates a worker pool with numWorkers goroutines.
// If numWorkers <= 0, runtime.GOMAXPROCS(0) workers are started.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	wp := &WorkerPool{
		numWorkers: numWorkers,
		workCh:     make(chan func(), numWorkers*2), // 2x buffer for pipelining
		stopCh:     make(chan struct{}),
	}

	// Start worker goroutines
	wp.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go wp.worker()
	}

	return wp
}

// NumWorkers returns the number of worker goroutines.
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// worker processes work closures from the work channel.
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.stopCh:
			// Drain remaining work before exiting
			for {
				select {
				case workFunc, ok := <-wp.workCh:
					if !ok {
						return
					}
					workFunc()
				default:
					return
				}
			}
		case workFunc, ok := <-wp.workCh:
			if !ok {
				return
			}
			workFunc()
		}
	}
}

// Submit enqueues a task and returns immediately.
//
// Error conditions:
//   - Returns ErrExecutorClosed if pool is closed
//   - Returns ctx.Err() if context is cancelled before enqueueing
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.submitMu.RLock()
	defer wp.submitMu.RUnlock()

	// Check if closed first
	if wp.closed.Load() {
		return ErrExecutorClosed
	}

	// Enqueue work (with backpressure)
	select {
	case wp.workCh <- task:
		return nil
	case <-wp.stopCh:
		return ErrExecutorClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunAll implements Executor.
func (wp *WorkerPool) RunAll(ctx context.Context, tasks []func() error) error {
	errs := make([]error, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		err := wp.Submit(ctx, func() {
			defer wg.Done()
			errs[i] = task()
		})
		if err != nil {
			wg.Done()
			for j := i; j < len(tasks); j++ {
				errs[j] = err
			}
			break
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Close shuts down the worker pool gracefully.
func (wp *WorkerPool) Close() {
	// Mark as closed (atomic, idempotent)
	if !wp.closed.CompareAndSwap(false, true) {
		return
	}

	wp.submitMu.Lock()
	close(wp.stopCh)
	close(wp.workCh)
	wp.submitMu.Unlock()

	wp.wg.Wait()
}

// GroupExecutor runs every batch on fresh goroutines bounded by an errgroup
// limit. It holds no resources between batches and needs no Close.
type GroupExecutor struct {
	limit int
}

var _ Executor = GroupExecutor{}

// NewGroupExecutor creates an executor running at most limit tasks at once.
// If limit <= 0, runtime.GOMAXPROCS(0) is used.
func NewGroupExecutor(limit int) GroupExecutor {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	return GroupExecutor{limit: limit}
}

// RunAll implements Executor.
func (ge GroupExecutor) RunAll(ctx context.Context, tasks []func() error) error {
	errs := make([]error, len(tasks))

	var g errgroup.Group
	g.SetLimit(max(ge.limit, 1))
	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(tasks); j++ {
				errs[j] = err
			}
			break
		}
		g.Go(func() error {
			errs[i] = task()
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
