package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/pregel/graph"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformGraph returns a directed graph where every node links to degree
// uniformly chosen targets (self loops allowed).
func (r *RNG) UniformGraph(nodeCount uint64, degree int) *graph.Adjacency {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := graph.NewBuilder(nodeCount)
	if nodeCount == 0 {
		return mustBuild(b)
	}
	for src := uint64(0); src < nodeCount; src++ {
		for i := 0; i < degree; i++ {
			b.AddRelationship(src, uint64(r.rand.Int63n(int64(nodeCount))))
		}
	}
	return mustBuild(b)
}

// SkewedGraph returns a directed graph whose sources follow a Zipf
// distribution with skew s (> 1): a few low-id hubs own most relationships.
// relationshipsPerNode controls the total relationship count.
func (r *RNG) SkewedGraph(nodeCount uint64, relationshipsPerNode int, s float64) *graph.Adjacency {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := graph.NewBuilder(nodeCount)
	if nodeCount == 0 {
		return mustBuild(b)
	}
	zipf := rand.NewZipf(r.rand, s, 1, nodeCount-1)
	total := int(nodeCount) * relationshipsPerNode
	for i := 0; i < total; i++ {
		src := zipf.Uint64()
		dst := uint64(r.rand.Int63n(int64(nodeCount)))
		b.AddRelationship(src, dst)
	}
	return mustBuild(b)
}

// WeightedUniformGraph is UniformGraph with weights in [1, 10).
func (r *RNG) WeightedUniformGraph(nodeCount uint64, degree int) *graph.Adjacency {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := graph.NewBuilder(nodeCount)
	if nodeCount == 0 {
		return mustBuild(b)
	}
	for src := uint64(0); src < nodeCount; src++ {
		for i := 0; i < degree; i++ {
			dst := uint64(r.rand.Int63n(int64(nodeCount)))
			b.AddWeightedRelationship(src, dst, 1+9*r.rand.Float64())
		}
	}
	return mustBuild(b)
}

// Chain returns the directed path 0->1->...->n-1.
func Chain(nodeCount uint64) *graph.Adjacency {
	b := graph.NewBuilder(nodeCount)
	for i := uint64(1); i < nodeCount; i++ {
		b.AddRelationship(i-1, i)
	}
	return mustBuild(b)
}

// Cycle returns the directed cycle 0->1->...->n-1->0.
func Cycle(nodeCount uint64) *graph.Adjacency {
	b := graph.NewBuilder(nodeCount)
	for i := uint64(0); i < nodeCount; i++ {
		b.AddRelationship(i, (i+1)%nodeCount)
	}
	return mustBuild(b)
}

// Star returns a graph where node 0 links to every other node and back.
func Star(nodeCount uint64) *graph.Adjacency {
	b := graph.NewBuilder(nodeCount).Undirected()
	for i := uint64(1); i < nodeCount; i++ {
		b.AddRelationship(0, i)
	}
	return mustBuild(b)
}

// Empty returns a graph without relationships.
func Empty(nodeCount uint64) *graph.Adjacency {
	return mustBuild(graph.NewBuilder(nodeCount))
}

func mustBuild(b *graph.Builder) *graph.Adjacency {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
