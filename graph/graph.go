package graph

// RelationshipConsumer is called for every relationship of a node. Returning
// false stops the iteration.
type RelationshipConsumer func(source, target uint64) bool

// WeightedRelationshipConsumer is called for every relationship of a node
// together with its weight. Returning false stops the iteration.
type WeightedRelationshipConsumer func(source, target uint64, weight float64) bool

// Graph is an immutable directed graph over the dense node-id space [0, NodeCount).
type Graph interface {
	// NodeCount returns the number of nodes.
	NodeCount() uint64

	// RelationshipCount returns the number of relationships.
	RelationshipCount() uint64

	// Degree returns the out-degree of the node.
	Degree(nodeID uint64) int

	// ForEachRelationship visits the outgoing relationships of the node.
	ForEachRelationship(nodeID uint64, fn RelationshipConsumer)

	// ConcurrentCopy returns a view that can be traversed from another goroutine.
	ConcurrentCopy() Graph
}

// WeightedGraph is a Graph with a weight per relationship.
type WeightedGraph interface {
	Graph

	// HasRelationshipWeights reports whether stored weights exist.
	HasRelationshipWeights() bool

	// ForEachWeightedRelationship visits the outgoing relationships of the
	// node. fallback is reported when no weights are stored.
	ForEachWeightedRelationship(nodeID uint64, fallback float64, fn WeightedRelationshipConsumer)
}
