package pregel

import (
	"fmt"
	"time"
)

// Termination tells why a run stopped.
type Termination int

const (
	// TerminationConverged means every node halted and no message was sent.
	TerminationConverged Termination = iota
	// TerminationMasterStopped means the master computation requested the stop.
	TerminationMasterStopped
	// TerminationIterationLimit means the superstep limit was reached first.
	TerminationIterationLimit
	// TerminationCancelled means the run context ended.
	TerminationCancelled
	// TerminationFailed means user code or a resource limit aborted the run.
	TerminationFailed
)

func (t Termination) String() string {
	switch t {
	case TerminationConverged:
		return "converged"
	case TerminationMasterStopped:
		return "master_stopped"
	case TerminationIterationLimit:
		return "iteration_limit"
	case TerminationCancelled:
		return "cancelled"
	case TerminationFailed:
		return "failed"
	default:
		return fmt.Sprintf("Termination(%d)", int(t))
	}
}

// Result is the outcome of Engine.Run.
type Result struct {
	// Supersteps is the number of executed supersteps.
	Supersteps int

	// DidConverge is true when the run ended with every node halted and no
	// pending messages.
	DidConverge bool

	Termination Termination

	// Values holds the public node values. They stay valid until
	// Engine.Release is called.
	Values *NodeValues

	// Stats has one entry per executed superstep.
	Stats []SuperstepStats

	Duration time.Duration

	// PeakMessageMemory is the highest number of bytes reserved for queued
	// messages. Always 0 for reducing computations.
	PeakMessageMemory int64
}
