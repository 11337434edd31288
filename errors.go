package pregel

import (
	"errors"
	"fmt"

	"github.com/hupe1980/pregel/internal/messenger"
)

var (
	// ErrInvalidNodeID is returned when a message targets a node outside [0, NodeCount).
	ErrInvalidNodeID = messenger.ErrInvalidNodeID

	// ErrMessageMemoryExhausted is returned when queued messages exceed the
	// configured message memory limit. Switching to a reducing computation
	// bounds message memory to O(NodeCount).
	ErrMessageMemoryExhausted = messenger.ErrMemoryExhausted

	// ErrInvalidReducer is returned when a declared reducer cannot fold float64 messages.
	ErrInvalidReducer = messenger.ErrInvalidReducer

	// ErrSchemaConflict is returned when a schema declares a key twice.
	ErrSchemaConflict = errors.New("conflicting schema key")

	// ErrInvalidSchema is returned for empty keys, unknown value types or
	// defaults that do not match the declared type.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrUnknownKey is returned when a node value key is not declared (or not visible).
	ErrUnknownKey = errors.New("unknown node value key")

	// ErrTypeMismatch is returned when a node value is accessed with the wrong type.
	ErrTypeMismatch = errors.New("node value type mismatch")

	// ErrInvalidConfig is returned by New for invalid options.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAlreadyRun is returned when Run is called more than once.
	ErrAlreadyRun = errors.New("engine already run")

	// ErrReleased is returned when a released engine is used.
	ErrReleased = errors.New("engine released")

	// ErrComputePanic marks a panic raised by user code.
	ErrComputePanic = errors.New("computation panicked")
)

// Phase identifies which user hook failed.
type Phase int

const (
	// PhaseInit is the per-node Init hook.
	PhaseInit Phase = iota
	// PhaseCompute is the per-node Compute hook.
	PhaseCompute
	// PhaseMaster is the single-threaded MasterCompute hook.
	PhaseMaster
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseCompute:
		return "compute"
	case PhaseMaster:
		return "master"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ComputeError reports a failure inside user logic together with the node
// and superstep it happened in.
//
// The original underlying error can be accessed via errors.Unwrap.
type ComputeError struct {
	Phase     Phase
	NodeID    uint64 // unset for PhaseMaster
	Superstep int
	cause     error
}

func (e *ComputeError) Error() string {
	if e.Phase == PhaseMaster {
		return fmt.Sprintf("%s failed in superstep %d: %v", e.Phase, e.Superstep, e.cause)
	}
	return fmt.Sprintf("%s failed for node %d in superstep %d: %v", e.Phase, e.NodeID, e.Superstep, e.cause)
}

func (e *ComputeError) Unwrap() error { return e.cause }

// IsAllocationFailure reports whether err was caused by exhausted message memory.
func IsAllocationFailure(err error) bool {
	return errors.Is(err, ErrMessageMemoryExhausted)
}

// contractViolation carries a programming error raised through a panic from
// a context accessor; the compute step unwraps it instead of reporting a panic.
type contractViolation struct {
	err error
}

func violate(err error) {
	panic(contractViolation{err: err})
}

func recoveredError(r any) error {
	if cv, ok := r.(contractViolation); ok {
		return cv.err
	}
	return fmt.Errorf("%w: %v", ErrComputePanic, r)
}
