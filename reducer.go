package pregel

import "github.com/hupe1980/pregel/internal/messenger"

// Reducer folds all messages sent to a node within one superstep into a
// single value at send time. It must be associative and commutative.
type Reducer = messenger.Reducer

// Messages is the read-only set of messages a node received from the
// previous superstep. With a reducer it holds at most one value.
type Messages = messenger.Messages

// Built-in reducers.
var (
	SumReducer   Reducer = messenger.Sum{}
	MinReducer   Reducer = messenger.Min{}
	MaxReducer   Reducer = messenger.Max{}
	CountReducer Reducer = messenger.Count{}
)
