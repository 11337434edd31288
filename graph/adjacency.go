package graph

import (
	"errors"
	"fmt"
)

// ErrNodeOutOfRange is returned when a relationship references an unknown node.
var ErrNodeOutOfRange = errors.New("node id out of range")

// Adjacency is an immutable CSR graph.
type Adjacency struct {
	offsets []uint64
	targets []uint64
	weights []float64
}

var _ WeightedGraph = (*Adjacency)(nil)

// NodeCount implements Graph.
func (a *Adjacency) NodeCount() uint64 {
	return uint64(len(a.offsets) - 1)
}

// RelationshipCount implements Graph.
func (a *Adjacency) RelationshipCount() uint64 {
	return uint64(len(a.targets))
}

// Degree implements Graph.
func (a *Adjacency) Degree(nodeID uint64) int {
	return int(a.offsets[nodeID+1] - a.offsets[nodeID])
}

// ForEachRelationship implements Graph.
func (a *Adjacency) ForEachRelationship(nodeID uint64, fn RelationshipConsumer) {
	for i := a.offsets[nodeID]; i < a.offsets[nodeID+1]; i++ {
		if !fn(nodeID, a.targets[i]) {
			return
		}
	}
}

// HasRelationshipWeights implements WeightedGraph.
func (a *Adjacency) HasRelationshipWeights() bool {
	return a.weights != nil
}

// ForEachWeightedRelationship implements WeightedGraph.
func (a *Adjacency) ForEachWeightedRelationship(nodeID uint64, fallback float64, fn WeightedRelationshipConsumer) {
	for i := a.offsets[nodeID]; i < a.offsets[nodeID+1]; i++ {
		w := fallback
		if a.weights != nil {
			w = a.weights[i]
		}
		if !fn(nodeID, a.targets[i], w) {
			return
		}
	}
}

// ConcurrentCopy implements Graph. Adjacency holds no cursor state, so the
// receiver itself is returned.
func (a *Adjacency) ConcurrentCopy() Graph {
	return a
}

type relationship struct {
	source, target uint64
	weight         float64
}

// Builder collects relationships and compacts them into an Adjacency.
// A Builder is not safe for concurrent use.
type Builder struct {
	nodeCount  uint64
	rels       []relationship
	weighted   bool
	undirected bool
}

// NewBuilder creates a builder for nodeCount nodes.
func NewBuilder(nodeCount uint64) *Builder {
	return &Builder{nodeCount: nodeCount}
}

// Undirected makes Build store every relationship in both directions.
func (b *Builder) Undirected() *Builder {
	b.undirected = true
	return b
}

// AddRelationship adds a directed relationship with weight 1.
func (b *Builder) AddRelationship(source, target uint64) *Builder {
	b.rels = append(b.rels, relationship{source: source, target: target, weight: 1})
	return b
}

// AddWeightedRelationship adds a directed relationship carrying weight.
func (b *Builder) AddWeightedRelationship(source, target uint64, weight float64) *Builder {
	b.weighted = true
	b.rels = append(b.rels, relationship{source: source, target: target, weight: weight})
	return b
}

// Build validates the relationships and returns the compacted graph.
// Relationships of a node keep their insertion order.
func (b *Builder) Build() (*Adjacency, error) {
	rels := b.rels
	if b.undirected {
		rels = make([]relationship, 0, 2*len(b.rels))
		for _, r := range b.rels {
			rels = append(rels, r, relationship{source: r.target, target: r.source, weight: r.weight})
		}
	}

	offsets := make([]uint64, b.nodeCount+1)
	for _, r := range rels {
		if r.source >= b.nodeCount || r.target >= b.nodeCount {
			return nil, fmt.Errorf("%w: relationship (%d)->(%d) with %d nodes", ErrNodeOutOfRange, r.source, r.target, b.nodeCount)
		}
		offsets[r.source+1]++
	}
	for i := uint64(1); i <= b.nodeCount; i++ {
		offsets[i] += offsets[i-1]
	}

	targets := make([]uint64, len(rels))
	var weights []float64
	if b.weighted {
		weights = make([]float64, len(rels))
	}

	cursor := make([]uint64, b.nodeCount)
	copy(cursor, offsets[:b.nodeCount])
	for _, r := range rels {
		pos := cursor[r.source]
		targets[pos] = r.target
		if weights != nil {
			weights[pos] = r.weight
		}
		cursor[r.source]++
	}

	return &Adjacency{offsets: offsets, targets: targets, weights: weights}, nil
}
