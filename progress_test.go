package pregel

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pregel/testutil"
)

func TestBasicProgressTracker(t *testing.T) {
	tracker := &BasicProgressTracker{}

	tracker.OnSuperstepStart(0)
	tracker.OnNodesProcessed(0, 10)
	tracker.OnNodesProcessed(0, 5)
	tracker.OnSuperstepEnd(SuperstepStats{Superstep: 0, MessagesSent: 7, ComputedNodes: 15, Duration: time.Millisecond})
	tracker.OnSuperstepEnd(SuperstepStats{Superstep: 1, MessagesSent: 3, ComputedNodes: 2, Duration: time.Millisecond})

	stats := tracker.GetStats()
	assert.Equal(t, int64(2), stats.Supersteps)
	assert.Equal(t, int64(15), stats.NodesProcessed)
	assert.Equal(t, int64(10), stats.MessagesSent)
	assert.Equal(t, int64(2), stats.LastActiveNodes)
	assert.Equal(t, (2 * time.Millisecond).Nanoseconds(), stats.TotalNanos)
}

func TestLoggingProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tracker := NewLoggingProgressTracker(logger, 100, time.Hour)

	tracker.OnSuperstepStart(3)
	tracker.OnNodesProcessed(3, 40)
	// Throttled: the burst of one was used by the first report.
	tracker.OnNodesProcessed(3, 10)
	tracker.OnSuperstepEnd(SuperstepStats{Superstep: 3, ComputedNodes: 50})

	out := buf.String()
	assert.Contains(t, out, `"msg":"superstep started"`)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`"msg":"superstep progress"`)))
	assert.Contains(t, out, `"percent":40`)
	assert.Contains(t, out, `"msg":"superstep completed"`)
}

func TestLogger_Run(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	res, err := runEngine(t, testutil.Chain(4), propagation{}, WithLogger(logger), WithConcurrency(2))
	require.NoError(t, err)
	require.True(t, res.DidConverge)

	out := buf.String()
	assert.Contains(t, out, "run started")
	assert.Contains(t, out, "node_count=4")
	assert.Contains(t, out, "superstep completed")
	assert.Contains(t, out, "run completed")
	assert.Contains(t, out, "termination=converged")
}

func TestLogger_RunFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil))

	c := &funcComputation{compute: func(ctx *ComputeContext, _ Messages) error {
		ctx.SendTo(ctx.NodeCount()+1, 0)
		return nil
	}}
	_, err := runEngine(t, testutil.Empty(2), c, WithLogger(logger), WithConcurrency(1))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "compute step failed")
	assert.Contains(t, out, "partition_start=0")
	assert.Contains(t, out, "run failed")
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil)).
		WithSuperstep(2).
		WithPartition(10, 5)

	logger.LogRunEnd(context.Background(), 3, TerminationIterationLimit, time.Second, nil)

	out := buf.String()
	assert.Contains(t, out, "superstep=2")
	assert.Contains(t, out, "partition_start=10")
	assert.Contains(t, out, "partition_count=5")
	assert.Contains(t, out, "termination=iteration_limit")

	// Discarding loggers never panic.
	NoopLogger().LogSuperstep(context.Background(), SuperstepStats{})
	assert.NotNil(t, NewTextLogger(slog.LevelWarn))
	assert.NotNil(t, NewJSONLogger(slog.LevelWarn))
}

func TestWithLogLevel(t *testing.T) {
	o := applyOptions([]Option{WithLogLevel(slog.LevelDebug), WithProgressTracker(nil), WithLogger(nil)})
	require.NotNil(t, o.logger)
	assert.IsType(t, NoopProgressTracker{}, o.progressTracker)
	assert.Equal(t, DefaultMaxIterations, o.maxIterations)
	assert.NoError(t, o.validate())
}
