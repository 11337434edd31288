package pregel

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/hupe1980/pregel/internal/partition"
)

// DefaultMaxIterations is the superstep limit used when none is configured.
const DefaultMaxIterations = 20

// Partition is the contiguous node range [Start, Start+Count) of one compute step.
type Partition = partition.Partition

// Partitioning selects how nodes are split into compute steps.
type Partitioning = partition.Strategy

const (
	// PartitionAuto uses degree partitioning when the graph has relationships
	// and more than one worker runs, range partitioning otherwise.
	PartitionAuto = partition.Auto
	// PartitionRange splits the id space into equally sized ranges.
	PartitionRange = partition.Range
	// PartitionDegree splits the id space by accumulated out-degree.
	PartitionDegree = partition.Degree
)

type options struct {
	concurrency        int
	maxIterations      int
	partitioning       Partitioning
	executor           Executor
	logger             *Logger
	progressTracker    ProgressTracker
	messageMemoryLimit int64
}

// Option configures an Engine.
type Option func(*options)

// WithConcurrency sets the number of partitions computed in parallel.
// Defaults to runtime.GOMAXPROCS(0).
func WithConcurrency(concurrency int) Option {
	return func(o *options) {
		o.concurrency = concurrency
	}
}

// WithMaxIterations bounds the number of executed supersteps.
// Defaults to DefaultMaxIterations.
func WithMaxIterations(maxIterations int) Option {
	return func(o *options) {
		o.maxIterations = maxIterations
	}
}

// WithPartitioning selects the partitioning strategy.
func WithPartitioning(p Partitioning) Option {
	return func(o *options) {
		o.partitioning = p
	}
}

// WithExecutor runs compute steps on a caller-owned executor, e.g. a
// WorkerPool shared between engines. The engine never closes it.
//
// Example:
//
//	pool := pregel.NewWorkerPool(8)
//	defer pool.Close()
//	engine, _ := pregel.New(g, computation, pregel.WithExecutor(pool))
func WithExecutor(executor Executor) Option {
	return func(o *options) {
		o.executor = executor
	}
}

// WithLogger configures structured logging for runs.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := pregel.NewJSONLogger(slog.LevelInfo)
//	engine, _ := pregel.New(g, computation, pregel.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithProgressTracker configures a progress observer.
// Pass nil to disable progress tracking.
//
// Example with BasicProgressTracker:
//
//	tracker := &pregel.BasicProgressTracker{}
//	engine, _ := pregel.New(g, computation, pregel.WithProgressTracker(tracker))
//	// ... run ...
//	stats := tracker.GetStats()
func WithProgressTracker(tracker ProgressTracker) Option {
	return func(o *options) {
		if tracker == nil {
			tracker = NoopProgressTracker{}
		}
		o.progressTracker = tracker
	}
}

// WithMessageMemoryLimit bounds the memory of queued messages of
// computations without reducer. Exceeding it fails the run with
// ErrMessageMemoryExhausted. 0 means unlimited.
func WithMessageMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.messageMemoryLimit = bytes
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		concurrency:     runtime.GOMAXPROCS(0),
		maxIterations:   DefaultMaxIterations,
		partitioning:    PartitionAuto,
		logger:          NoopLogger(),
		progressTracker: NoopProgressTracker{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) validate() error {
	if o.concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be positive, got %d", ErrInvalidConfig, o.concurrency)
	}
	if o.maxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfig, o.maxIterations)
	}
	if o.partitioning < PartitionAuto || o.partitioning > PartitionDegree {
		return fmt.Errorf("%w: unknown partitioning %v", ErrInvalidConfig, o.partitioning)
	}
	if o.messageMemoryLimit < 0 {
		return fmt.Errorf("%w: negative message memory limit", ErrInvalidConfig)
	}
	return nil
}
