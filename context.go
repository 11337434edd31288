package pregel

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/pregel/graph"
)

// nodeContext holds the capabilities shared by init and compute contexts.
// Contexts are reused between nodes and must not be retained by user code.
type nodeContext struct {
	step *computeStep
}

// NodeID returns the id of the node being processed.
func (c *nodeContext) NodeID() uint64 {
	return c.step.nodeID
}

// Superstep returns the current superstep (0 during init).
func (c *nodeContext) Superstep() int {
	return c.step.superstep
}

// NodeCount returns the number of nodes in the graph.
func (c *nodeContext) NodeCount() uint64 {
	return c.step.graph.NodeCount()
}

// RelationshipCount returns the number of relationships in the graph.
func (c *nodeContext) RelationshipCount() uint64 {
	return c.step.graph.RelationshipCount()
}

// Degree returns the out-degree of the current node.
func (c *nodeContext) Degree() int {
	return c.step.graph.Degree(c.step.nodeID)
}

// ForEachNeighbor visits the targets of the current node's relationships.
func (c *nodeContext) ForEachNeighbor(fn func(target uint64) bool) {
	c.step.graph.ForEachRelationship(c.step.nodeID, func(_, target uint64) bool {
		return fn(target)
	})
}

// VoteToHalt marks the node inactive until it receives a message.
func (c *nodeContext) VoteToHalt() {
	c.step.engine.votes.Set(c.step.nodeID)
}

// LongValue returns the node's Long slot.
func (c *nodeContext) LongValue(key string) int64 {
	return c.step.engine.values.mustColumn(key, Long).longs[c.step.nodeID]
}

// SetLongValue writes the node's Long slot.
func (c *nodeContext) SetLongValue(key string, value int64) {
	c.step.engine.values.mustColumn(key, Long).longs[c.step.nodeID] = value
}

// DoubleValue returns the node's Double slot.
func (c *nodeContext) DoubleValue(key string) float64 {
	return c.step.engine.values.mustColumn(key, Double).doubles[c.step.nodeID]
}

// SetDoubleValue writes the node's Double slot.
func (c *nodeContext) SetDoubleValue(key string, value float64) {
	c.step.engine.values.mustColumn(key, Double).doubles[c.step.nodeID] = value
}

// LongArrayValue returns the node's LongArray slot.
func (c *nodeContext) LongArrayValue(key string) []int64 {
	return c.step.engine.values.mustColumn(key, LongArray).longArrays[c.step.nodeID]
}

// SetLongArrayValue writes the node's LongArray slot. The engine keeps the slice.
func (c *nodeContext) SetLongArrayValue(key string, value []int64) {
	c.step.engine.values.mustColumn(key, LongArray).longArrays[c.step.nodeID] = value
}

// DoubleArrayValue returns the node's DoubleArray slot.
func (c *nodeContext) DoubleArrayValue(key string) []float64 {
	return c.step.engine.values.mustColumn(key, DoubleArray).doubleArrays[c.step.nodeID]
}

// SetDoubleArrayValue writes the node's DoubleArray slot. The engine keeps the slice.
func (c *nodeContext) SetDoubleArrayValue(key string, value []float64) {
	c.step.engine.values.mustColumn(key, DoubleArray).doubleArrays[c.step.nodeID] = value
}

// InitContext is handed to Computation.Init. It can read the topology and
// write the node's values, but cannot send messages.
type InitContext struct {
	nodeContext
}

// ComputeContext is handed to Computation.Compute.
type ComputeContext struct {
	nodeContext
}

// IsInitialSuperstep reports whether this is superstep 0.
func (c *ComputeContext) IsInitialSuperstep() bool {
	return c.step.superstep == 0
}

// SendTo sends a message to target, delivered in the next superstep.
// Targets outside [0, NodeCount) abort the run with ErrInvalidNodeID.
func (c *ComputeContext) SendTo(target uint64, message float64) {
	c.step.send(target, message)
}

// SendToNeighbors sends the message along every outgoing relationship. On
// weighted graphs a WeightedComputation transforms the message per relationship.
func (c *ComputeContext) SendToNeighbors(message float64) {
	s := c.step
	if s.weighted != nil && s.engine.weightFn != nil {
		s.weighted.ForEachWeightedRelationship(s.nodeID, 1, func(_, target uint64, weight float64) bool {
			s.send(target, s.engine.weightFn(message, weight))
			return s.sendErr == nil
		})
		return
	}
	s.graph.ForEachRelationship(s.nodeID, func(_, target uint64) bool {
		s.send(target, message)
		return s.sendErr == nil
	})
}

// Global returns a value published by the master computation.
func (c *ComputeContext) Global(key string) (any, bool) {
	v, ok := c.step.engine.globals[key]
	return v, ok
}

// MasterContext is handed to MasterComputation.MasterCompute. It runs on a
// single goroutine between supersteps and may access every node.
type MasterContext struct {
	engine    *Engine
	superstep int
	stats     SuperstepStats
}

// Superstep returns the superstep that just finished.
func (c *MasterContext) Superstep() int {
	return c.superstep
}

// NodeCount returns the number of nodes in the graph.
func (c *MasterContext) NodeCount() uint64 {
	return c.engine.graph.NodeCount()
}

// Graph returns the graph the engine runs on.
func (c *MasterContext) Graph() graph.Graph {
	return c.engine.graph
}

// Stats returns the statistics of the superstep that just finished.
func (c *MasterContext) Stats() SuperstepStats {
	return c.stats
}

// HaltedNodes returns a snapshot of the nodes that voted to halt.
func (c *MasterContext) HaltedNodes() *roaring64.Bitmap {
	return c.engine.votes.Roaring()
}

// IsHalted reports whether the node voted to halt.
func (c *MasterContext) IsHalted(nodeID uint64) bool {
	c.checkNode(nodeID)
	return c.engine.votes.Test(nodeID)
}

// Global returns a global scratch value.
func (c *MasterContext) Global(key string) (any, bool) {
	v, ok := c.engine.globals[key]
	return v, ok
}

// SetGlobal publishes a global scratch value, visible to Compute from the next superstep on.
func (c *MasterContext) SetGlobal(key string, value any) {
	c.engine.globals[key] = value
}

// ForEachNode visits node ids in ascending order until fn returns false.
func (c *MasterContext) ForEachNode(fn func(nodeID uint64) bool) {
	n := c.engine.graph.NodeCount()
	for id := uint64(0); id < n; id++ {
		if !fn(id) {
			return
		}
	}
}

func (c *MasterContext) checkNode(nodeID uint64) {
	if nodeID >= c.engine.graph.NodeCount() {
		violate(ErrInvalidNodeID)
	}
}

// LongValue returns a node's Long slot.
func (c *MasterContext) LongValue(nodeID uint64, key string) int64 {
	c.checkNode(nodeID)
	return c.engine.values.mustColumn(key, Long).longs[nodeID]
}

// SetLongValue writes a node's Long slot.
func (c *MasterContext) SetLongValue(nodeID uint64, key string, value int64) {
	c.checkNode(nodeID)
	c.engine.values.mustColumn(key, Long).longs[nodeID] = value
}

// DoubleValue returns a node's Double slot.
func (c *MasterContext) DoubleValue(nodeID uint64, key string) float64 {
	c.checkNode(nodeID)
	return c.engine.values.mustColumn(key, Double).doubles[nodeID]
}

// SetDoubleValue writes a node's Double slot.
func (c *MasterContext) SetDoubleValue(nodeID uint64, key string, value float64) {
	c.checkNode(nodeID)
	c.engine.values.mustColumn(key, Double).doubles[nodeID] = value
}
