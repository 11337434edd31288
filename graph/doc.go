// Package graph defines the read-only graph contract consumed by the pregel
// engine and ships a compact in-memory implementation.
//
// The engine never mutates a graph. Every compute step works on its own
// ConcurrentCopy so implementations with per-cursor state (adjacency
// decompression buffers, page caches) can hand out cheap thread-local clones.
//
// # In-memory graphs
//
//	b := graph.NewBuilder(4)
//	b.AddRelationship(0, 1)
//	b.AddRelationship(1, 2)
//	g, err := b.Build()
//
// Build lays relationships out in compressed sparse row (CSR) order: one
// offsets array of NodeCount+1 entries and one targets array, plus an optional
// weights array when weighted relationships were added.
package graph
