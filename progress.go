package pregel

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// SuperstepStats summarizes one finished superstep.
type SuperstepStats struct {
	Superstep     int
	MessagesSent  uint64
	ComputedNodes uint64
	HaltedNodes   uint64
	Duration      time.Duration
}

// ProgressTracker observes a run. It is purely observational; implementations
// must not block. OnNodesProcessed is called concurrently from compute steps.
//
// Example Prometheus integration:
//
//	type PrometheusTracker struct {
//	    messages prometheus.Counter
//	}
//
//	func (p *PrometheusTracker) OnSuperstepEnd(stats pregel.SuperstepStats) {
//	    p.messages.Add(float64(stats.MessagesSent))
//	}
type ProgressTracker interface {
	// OnSuperstepStart is called before the compute steps of a superstep run.
	OnSuperstepStart(superstep int)

	// OnNodesProcessed reports a batch of processed nodes. During init the
	// superstep is 0.
	OnNodesProcessed(superstep int, count int)

	// OnSuperstepEnd is called after the barrier and the master hook.
	OnSuperstepEnd(stats SuperstepStats)
}

// NoopProgressTracker is a no-op implementation of ProgressTracker.
type NoopProgressTracker struct{}

func (NoopProgressTracker) OnSuperstepStart(int) {}

func (NoopProgressTracker) OnNodesProcessed(int, int) {}

func (NoopProgressTracker) OnSuperstepEnd(SuperstepStats) {}

// BasicProgressTracker provides simple in-memory run counters.
type BasicProgressTracker struct {
	Supersteps      atomic.Int64
	NodesProcessed  atomic.Int64
	MessagesSent    atomic.Int64
	LastActiveNodes atomic.Int64
	TotalNanos      atomic.Int64
}

// OnSuperstepStart implements ProgressTracker.
func (b *BasicProgressTracker) OnSuperstepStart(int) {}

// OnNodesProcessed implements ProgressTracker.
func (b *BasicProgressTracker) OnNodesProcessed(_ int, count int) {
	b.NodesProcessed.Add(int64(count))
}

// OnSuperstepEnd implements ProgressTracker.
func (b *BasicProgressTracker) OnSuperstepEnd(stats SuperstepStats) {
	b.Supersteps.Add(1)
	b.MessagesSent.Add(int64(stats.MessagesSent))
	b.LastActiveNodes.Store(int64(stats.ComputedNodes))
	b.TotalNanos.Add(stats.Duration.Nanoseconds())
}

// GetStats returns a snapshot of current counters.
func (b *BasicProgressTracker) GetStats() BasicProgressStats {
	return BasicProgressStats{
		Supersteps:      b.Supersteps.Load(),
		NodesProcessed:  b.NodesProcessed.Load(),
		MessagesSent:    b.MessagesSent.Load(),
		LastActiveNodes: b.LastActiveNodes.Load(),
		TotalNanos:      b.TotalNanos.Load(),
	}
}

// BasicProgressStats is a snapshot of BasicProgressTracker state.
type BasicProgressStats struct {
	Supersteps      int64
	NodesProcessed  int64
	MessagesSent    int64
	LastActiveNodes int64
	TotalNanos      int64
}

// LoggingProgressTracker logs superstep boundaries and throttled in-superstep
// progress.
type LoggingProgressTracker struct {
	logger    *Logger
	nodeCount uint64
	limiter   *rate.Limiter
	processed atomic.Int64
}

// NewLoggingProgressTracker logs at most one progress line per interval.
func NewLoggingProgressTracker(logger *Logger, nodeCount uint64, interval time.Duration) *LoggingProgressTracker {
	if logger == nil {
		logger = NoopLogger()
	}
	return &LoggingProgressTracker{
		logger:    logger,
		nodeCount: nodeCount,
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
	}
}

// OnSuperstepStart implements ProgressTracker.
func (l *LoggingProgressTracker) OnSuperstepStart(superstep int) {
	l.processed.Store(0)
	l.logger.DebugContext(context.Background(), "superstep started", "superstep", superstep)
}

// OnNodesProcessed implements ProgressTracker.
func (l *LoggingProgressTracker) OnNodesProcessed(superstep int, count int) {
	done := l.processed.Add(int64(count))
	if !l.limiter.Allow() {
		return
	}
	percent := 100.0
	if l.nodeCount > 0 {
		percent = float64(done) * 100 / float64(l.nodeCount)
	}
	l.logger.InfoContext(context.Background(), "superstep progress",
		"superstep", superstep,
		"processed", done,
		"percent", percent,
	)
}

// OnSuperstepEnd implements ProgressTracker.
func (l *LoggingProgressTracker) OnSuperstepEnd(stats SuperstepStats) {
	l.logger.LogSuperstep(context.Background(), stats)
}
