package messenger

import "errors"

var (
	// ErrInvalidNodeID is returned when a message targets a node outside [0, nodeCount).
	ErrInvalidNodeID = errors.New("invalid node id")

	// ErrMemoryExhausted is returned when queued messages exceed the memory budget.
	ErrMemoryExhausted = errors.New("message memory exhausted")
)

// Messenger moves messages between supersteps.
//
// SendTo is safe for concurrent use. Messages and HasMessages may be called
// concurrently with SendTo because they only read the buffer filled in the
// previous superstep. InitIteration must only be called between supersteps.
type Messenger interface {
	// InitIteration swaps the buffers so that messages sent in the previous
	// superstep become readable and the write buffer is empty.
	InitIteration(superstep int)

	// SendTo delivers value to target in the next superstep.
	SendTo(target uint64, value float64) error

	// Messages returns the messages visible to node in the current superstep.
	Messages(node uint64) Messages

	// HasMessages reports whether node received anything in the previous superstep.
	HasMessages(node uint64) bool

	// Release drops both buffers. The messenger is unusable afterwards.
	Release()
}
