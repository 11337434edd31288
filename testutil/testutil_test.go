package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	g := Chain(4)

	assert.Equal(t, uint64(4), g.NodeCount())
	assert.Equal(t, uint64(3), g.RelationshipCount())
	assert.Equal(t, 1, g.Degree(0))
	assert.Equal(t, 0, g.Degree(3))
}

func TestCycleAndStar(t *testing.T) {
	assert.Equal(t, uint64(5), Cycle(5).RelationshipCount())

	s := Star(5)
	assert.Equal(t, 4, s.Degree(0))
	assert.Equal(t, 1, s.Degree(3))
}

func TestEmpty(t *testing.T) {
	g := Empty(4)
	assert.Equal(t, uint64(4), g.NodeCount())
	assert.Equal(t, uint64(0), g.RelationshipCount())
}

func TestUniformGraph_Deterministic(t *testing.T) {
	a := NewRNG(4711).UniformGraph(100, 3)
	b := NewRNG(4711).UniformGraph(100, 3)

	assert.Equal(t, uint64(300), a.RelationshipCount())
	assert.Equal(t, a, b)
}

func TestSkewedGraph_HasHubs(t *testing.T) {
	g := NewRNG(4711).SkewedGraph(1000, 4, 1.5)

	assert.Equal(t, uint64(4000), g.RelationshipCount())
	// Node 0 is the Zipf mode.
	assert.Greater(t, g.Degree(0), 100)
}

func TestRNG_Reset(t *testing.T) {
	rng := NewRNG(4711)
	first := rng.Intn(1000)
	rng.Reset()
	assert.Equal(t, first, rng.Intn(1000))
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestWeightedUniformGraph(t *testing.T) {
	g := NewRNG(4711).WeightedUniformGraph(10, 2)
	assert.True(t, g.HasRelationshipWeights())

	for n := uint64(0); n < g.NodeCount(); n++ {
		g.ForEachWeightedRelationship(n, 0, func(_, _ uint64, w float64) bool {
			assert.GreaterOrEqual(t, w, 1.0)
			assert.Less(t, w, 10.0)
			return true
		})
	}
}
