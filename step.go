package pregel

import (
	"errors"

	"golang.org/x/sys/cpu"

	"github.com/hupe1980/pregel/graph"
	"github.com/hupe1980/pregel/internal/partition"
)

// progressBatch is the number of processed nodes between progress reports.
const progressBatch = 1 << 14

// errTerminated stops a step when the run is cancelled or another step failed.
var errTerminated = errors.New("terminated")

// stepCounters are written by one worker and read by the orchestrator after
// the barrier. Padding keeps neighbouring steps off each other's cache line.
type stepCounters struct {
	_             cpu.CacheLinePad
	messagesSent  uint64
	computedNodes uint64
	_             cpu.CacheLinePad
}

// computeStep executes one partition for the whole run.
type computeStep struct {
	engine    *Engine
	partition partition.Partition
	graph     graph.Graph
	weighted  graph.WeightedGraph // nil unless the graph stores weights

	superstep int
	nodeID    uint64
	sendErr   error
	counters  stepCounters

	initCtx    InitContext
	computeCtx ComputeContext
}

func newComputeStep(e *Engine, p partition.Partition) *computeStep {
	s := &computeStep{
		engine:    e,
		partition: p,
		graph:     e.graph.ConcurrentCopy(),
	}
	if wg, ok := s.graph.(graph.WeightedGraph); ok && wg.HasRelationshipWeights() {
		s.weighted = wg
	}
	s.initCtx.step = s
	s.computeCtx.step = s
	return s
}

func (s *computeStep) send(target uint64, message float64) {
	if s.sendErr != nil {
		return
	}
	if err := s.engine.messenger.SendTo(target, message); err != nil {
		s.sendErr = err
		return
	}
	s.counters.messagesSent++
}

// runInit calls Init for every node of the partition.
func (s *computeStep) runInit() error {
	s.superstep = 0
	processed := 0
	for id := s.partition.Start; id < s.partition.End(); id++ {
		if s.engine.terminated.Load() {
			return errTerminated
		}
		s.nodeID = id
		if err := s.callInit(); err != nil {
			return &ComputeError{Phase: PhaseInit, NodeID: id, Superstep: 0, cause: err}
		}
		processed++
		if processed == progressBatch {
			s.engine.progress.OnNodesProcessed(0, processed)
			processed = 0
		}
	}
	if processed > 0 {
		s.engine.progress.OnNodesProcessed(0, processed)
	}
	return nil
}

// runSuperstep visits the partition in ascending id order and computes every
// active node.
func (s *computeStep) runSuperstep(superstep int) error {
	e := s.engine
	s.superstep = superstep
	s.counters.messagesSent = 0
	s.counters.computedNodes = 0

	processed := 0
	for id := s.partition.Start; id < s.partition.End(); id++ {
		if e.terminated.Load() {
			return errTerminated
		}

		if e.votes.Test(id) {
			if !e.messenger.HasMessages(id) {
				continue
			}
			e.votes.Unset(id)
		}

		s.nodeID = id
		if err := s.callCompute(e.messenger.Messages(id)); err != nil {
			return &ComputeError{Phase: PhaseCompute, NodeID: id, Superstep: superstep, cause: err}
		}
		s.counters.computedNodes++

		processed++
		if processed == progressBatch {
			e.progress.OnNodesProcessed(superstep, processed)
			processed = 0
		}
	}
	if processed > 0 {
		e.progress.OnNodesProcessed(superstep, processed)
	}
	return nil
}

func (s *computeStep) callInit() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
		}
	}()
	return s.engine.computation.Init(&s.initCtx)
}

func (s *computeStep) callCompute(messages Messages) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
		}
	}()
	if err := s.engine.computation.Compute(&s.computeCtx, messages); err != nil {
		return err
	}
	return s.sendErr
}

func (s *computeStep) sentMessages() bool {
	return s.counters.messagesSent > 0
}
