package pregel

// Computation is the per-node logic executed by the engine.
//
// Init runs once per node before superstep 0. Compute runs once per active
// node and superstep. A node is active unless it voted to halt and received
// no message in the previous superstep. Both hooks are called concurrently
// for nodes of different partitions; they must only touch their own node's
// values.
type Computation interface {
	// Schema declares the node value slots.
	Schema() *Schema

	// Init seeds the node values of ctx.NodeID().
	Init(ctx *InitContext) error

	// Compute processes the messages of ctx.NodeID() for ctx.Superstep().
	Compute(ctx *ComputeContext, messages Messages) error
}

// MasterComputation adds a single-threaded hook that runs after every
// superstep, once all partitions finished.
type MasterComputation interface {
	Computation

	// MasterCompute may inspect and modify global state. Returning true stops
	// the run after the current superstep.
	MasterCompute(ctx *MasterContext) (bool, error)
}

// ReducingComputation declares a reducer. Messages to the same node are then
// folded at send time, bounding message memory to O(NodeCount).
type ReducingComputation interface {
	Computation

	Reducer() Reducer
}

// WeightedComputation transforms messages sent with SendToNeighbors over
// weighted relationships.
type WeightedComputation interface {
	Computation

	ApplyRelationshipWeight(message, weight float64) float64
}
