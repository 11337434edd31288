package pregel

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with engine-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithSuperstep adds a superstep field to the logger.
func (l *Logger) WithSuperstep(superstep int) *Logger {
	return &Logger{
		Logger: l.Logger.With("superstep", superstep),
	}
}

// WithPartition adds the node range of a partition to the logger.
func (l *Logger) WithPartition(start, count uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("partition_start", start, "partition_count", count),
	}
}

// WithNodeCount adds a node_count field to the logger.
func (l *Logger) WithNodeCount(nodeCount uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("node_count", nodeCount),
	}
}

// LogRunStart logs the start of a run.
func (l *Logger) LogRunStart(ctx context.Context, relationships uint64, partitions, maxIterations int, reduced bool) {
	l.InfoContext(ctx, "run started",
		"relationships", relationships,
		"partitions", partitions,
		"max_iterations", maxIterations,
		"reduced", reduced,
	)
}

// LogSuperstep logs a finished superstep.
func (l *Logger) LogSuperstep(ctx context.Context, stats SuperstepStats) {
	l.DebugContext(ctx, "superstep completed",
		"superstep", stats.Superstep,
		"computed_nodes", stats.ComputedNodes,
		"messages_sent", stats.MessagesSent,
		"halted_nodes", stats.HaltedNodes,
		"duration", stats.Duration,
	)
}

// LogRunEnd logs the outcome of a run.
func (l *Logger) LogRunEnd(ctx context.Context, supersteps int, termination Termination, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"supersteps", supersteps,
			"elapsed", elapsed,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "run completed",
			"supersteps", supersteps,
			"termination", termination.String(),
			"elapsed", elapsed,
		)
	}
}
