// Package testutil provides graph generators for pregel tests and benchmarks.
//
// This package is intended for use in tests and benchmarks only.
//
// # Deterministic Graphs
//
//	g := testutil.Chain(4)   // 0->1->2->3
//	g := testutil.Star(100)  // hub 0 linked to every other node
//	g := testutil.Empty(4)   // no relationships
//
// # Random Graphs
//
//	rng := testutil.NewRNG(seed)
//	g := rng.UniformGraph(1000, 8)       // ~8 out-relationships per node
//	g := rng.SkewedGraph(1000, 8, 1.5)   // Zipf-distributed targets (hubs)
package testutil
