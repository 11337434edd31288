package pregel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/pregel/graph"
	"github.com/hupe1980/pregel/internal/bitset"
	"github.com/hupe1980/pregel/internal/messenger"
	"github.com/hupe1980/pregel/internal/partition"
	"github.com/hupe1980/pregel/internal/resource"
)

type engineState int

const (
	stateCreated engineState = iota
	stateRunning
	stateFinished
	stateReleased
)

// Engine executes a Computation over a graph in synchronized supersteps.
//
// An Engine runs exactly once. Everything the run needs is allocated by New;
// message buffers are released when Run returns, node values by Release.
type Engine struct {
	graph       graph.Graph
	computation Computation
	master      MasterComputation
	weightFn    func(message, weight float64) float64
	reduced     bool
	opts        options
	logger      *Logger
	progress    ProgressTracker

	values     *NodeValues
	votes      *bitset.BitSet
	messenger  messenger.Messenger
	rc         *resource.Controller
	partitions []partition.Partition
	steps      []*computeStep
	executor   Executor
	ownedPool  *WorkerPool
	globals    map[string]any

	// terminated is polled by compute steps between nodes.
	terminated atomic.Bool

	mu    sync.Mutex
	state engineState
}

// New validates the computation and options and allocates the node values,
// the vote bitset, the messenger and the compute steps.
func New(g graph.Graph, c Computation, optFns ...Option) (*Engine, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidConfig)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: nil computation", ErrInvalidConfig)
	}

	opts := applyOptions(optFns)
	if err := opts.validate(); err != nil {
		return nil, err
	}

	nodeCount := g.NodeCount()

	values, err := newNodeValues(c.Schema(), nodeCount)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		graph:       g,
		computation: c,
		opts:        opts,
		logger:      opts.logger,
		progress:    opts.progressTracker,
		values:      values,
		votes:       bitset.New(nodeCount),
		rc:          resource.NewController(resource.Config{LimitBytes: opts.messageMemoryLimit}),
		globals:     make(map[string]any),
	}

	if rc, ok := c.(ReducingComputation); ok {
		m, err := messenger.NewReduced(nodeCount, rc.Reducer())
		if err != nil {
			return nil, err
		}
		e.messenger = m
		e.reduced = true
	} else {
		e.messenger = messenger.NewQueue(nodeCount, e.rc)
	}

	if mc, ok := c.(MasterComputation); ok {
		e.master = mc
	}
	if wc, ok := c.(WeightedComputation); ok {
		e.weightFn = wc.ApplyRelationshipWeight
	}

	e.partitions = partition.Compute(opts.partitioning, nodeCount, g.RelationshipCount(), opts.concurrency,
		func(nodeID uint64) uint64 { return uint64(g.Degree(nodeID)) })

	e.steps = make([]*computeStep, len(e.partitions))
	for i, p := range e.partitions {
		e.steps[i] = newComputeStep(e, p)
	}

	return e, nil
}

// Run executes the init phase and supersteps until the computation converges,
// the master computation stops it, the iteration limit is reached or ctx ends.
//
// Cancellation is not an error: the result reports TerminationCancelled. On
// failure the returned Result describes the partial run and err is non-nil;
// user errors and panics are reported as *ComputeError.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	e.mu.Lock()
	switch e.state {
	case stateCreated:
		e.state = stateRunning
	case stateReleased:
		e.mu.Unlock()
		return nil, ErrReleased
	default:
		e.mu.Unlock()
		return nil, ErrAlreadyRun
	}
	e.mu.Unlock()

	defer e.finish()

	start := time.Now()
	stop := context.AfterFunc(ctx, func() {
		e.terminated.Store(true)
	})
	defer stop()

	if e.opts.executor != nil {
		e.executor = e.opts.executor
	} else {
		e.ownedPool = NewWorkerPool(min(e.opts.concurrency, max(len(e.steps), 1)))
		e.executor = e.ownedPool
	}

	logger := e.logger.WithNodeCount(e.graph.NodeCount())
	logger.LogRunStart(ctx, e.graph.RelationshipCount(), len(e.partitions), e.opts.maxIterations, e.reduced)

	res := &Result{Values: e.values.publicView()}
	termination, err := e.run(ctx, logger, res)

	res.Termination = termination
	res.DidConverge = termination == TerminationConverged
	res.Duration = time.Since(start)
	res.PeakMessageMemory = e.rc.Peak()

	logger.LogRunEnd(ctx, res.Supersteps, termination, res.Duration, err)

	return res, err
}

func (e *Engine) run(ctx context.Context, logger *Logger, res *Result) (Termination, error) {
	if ctx.Err() != nil {
		return TerminationCancelled, nil
	}

	if err := e.runSteps(ctx, (*computeStep).runInit); err != nil {
		return e.terminationFor(err)
	}

	// Every node started halted and nothing can be pending yet.
	if e.votes.AllSet() {
		return TerminationConverged, nil
	}

	for superstep := 0; ; superstep++ {
		if e.terminated.Load() {
			return TerminationCancelled, nil
		}

		e.messenger.InitIteration(superstep)
		e.progress.OnSuperstepStart(superstep)

		stepStart := time.Now()
		if err := e.runSteps(ctx, func(s *computeStep) error { return s.runSuperstep(superstep) }); err != nil {
			return e.terminationFor(err)
		}
		res.Supersteps = superstep + 1

		stats := SuperstepStats{
			Superstep:   superstep,
			HaltedNodes: e.votes.Count(),
			Duration:    time.Since(stepStart),
		}
		sent := false
		for _, s := range e.steps {
			stats.MessagesSent += s.counters.messagesSent
			stats.ComputedNodes += s.counters.computedNodes
			sent = sent || s.sentMessages()
		}

		masterStop := false
		if e.master != nil {
			var err error
			if masterStop, err = e.callMaster(superstep, stats); err != nil {
				res.Stats = append(res.Stats, stats)
				return TerminationFailed, err
			}
		}

		res.Stats = append(res.Stats, stats)
		e.progress.OnSuperstepEnd(stats)
		logger.LogSuperstep(ctx, stats)

		switch {
		case !sent && e.votes.AllSet():
			return TerminationConverged, nil
		case masterStop:
			return TerminationMasterStopped, nil
		case superstep+1 >= e.opts.maxIterations:
			return TerminationIterationLimit, nil
		}
	}
}

// runSteps runs fn for every compute step on the executor and waits for all
// of them. The first real failure in partition order wins; errTerminated is
// returned when the run was cancelled.
func (e *Engine) runSteps(ctx context.Context, fn func(*computeStep) error) error {
	errs := make([]error, len(e.steps))
	tasks := make([]func() error, len(e.steps))
	for i, s := range e.steps {
		tasks[i] = func() error {
			err := fn(s)
			if err != nil && !errors.Is(err, errTerminated) {
				// Stop the other steps early.
				e.terminated.Store(true)
				e.logger.WithSuperstep(s.superstep).
					WithPartition(s.partition.Start, s.partition.Count).
					WarnContext(ctx, "compute step failed", "error", err)
			}
			errs[i] = err
			return err
		}
	}

	execErr := e.executor.RunAll(ctx, tasks)

	for _, err := range errs {
		if err != nil && !errors.Is(err, errTerminated) {
			return err
		}
	}
	if execErr != nil && !errors.Is(execErr, errTerminated) && ctx.Err() == nil {
		return execErr
	}
	if e.terminated.Load() || ctx.Err() != nil {
		return errTerminated
	}
	return nil
}

func (e *Engine) terminationFor(err error) (Termination, error) {
	if errors.Is(err, errTerminated) {
		return TerminationCancelled, nil
	}
	return TerminationFailed, err
}

func (e *Engine) callMaster(superstep int, stats SuperstepStats) (stop bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			stop = false
			err = &ComputeError{Phase: PhaseMaster, Superstep: superstep, cause: recoveredError(r)}
		}
	}()

	ctx := &MasterContext{engine: e, superstep: superstep, stats: stats}
	stop, err = e.master.MasterCompute(ctx)
	if err != nil {
		return false, &ComputeError{Phase: PhaseMaster, Superstep: superstep, cause: err}
	}
	return stop, nil
}

// finish releases the per-run resources once Run returns.
func (e *Engine) finish() {
	e.messenger.Release()
	if e.ownedPool != nil {
		e.ownedPool.Close()
	}

	e.mu.Lock()
	if e.state == stateRunning {
		e.state = stateFinished
	}
	e.mu.Unlock()
}

// Release frees the node values, including the ones exposed by
// Result.Values, and every remaining buffer. It is idempotent and may be
// called after a cancelled or failed run, or instead of Run. It must not be
// called concurrently with Run.
func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == stateReleased {
		return
	}
	e.state = stateReleased

	e.messenger.Release()
	if e.ownedPool != nil {
		e.ownedPool.Close()
	}
	e.values.release()
	e.votes.ClearAll()
	clear(e.globals)
	e.steps = nil
}

// Partitions returns the node ranges of the compute steps.
func (e *Engine) Partitions() []Partition {
	out := make([]Partition, len(e.partitions))
	copy(out, e.partitions)
	return out
}
