package partition

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertTiles(t *testing.T, partitions []Partition, nodeCount uint64) {
	t.Helper()

	var next, sum uint64
	for _, p := range partitions {
		require.Equal(t, next, p.Start, "gap or overlap at %v", p)
		require.NotZero(t, p.Count, "empty partition %v", p)
		next = p.End()
		sum += p.Count
	}
	assert.Equal(t, nodeCount, next)
	assert.Equal(t, nodeCount, sum)
}

func TestRangePartitions(t *testing.T) {
	tests := []struct {
		nodeCount   uint64
		concurrency int
		want        []Partition
	}{
		{0, 4, nil},
		{10, 1, []Partition{{0, 10}}},
		{10, 3, []Partition{{0, 4}, {4, 3}, {7, 3}}},
		{3, 8, []Partition{{0, 1}, {1, 1}, {2, 1}}},
		{8, 0, []Partition{{0, 8}}},
	}

	for _, tt := range tests {
		got := RangePartitions(tt.nodeCount, tt.concurrency)
		assert.Equal(t, tt.want, got, "n=%d c=%d", tt.nodeCount, tt.concurrency)
	}
}

func TestRangePartitions_Tiling(t *testing.T) {
	for n := uint64(0); n < 200; n++ {
		for c := 1; c <= 17; c++ {
			partitions := RangePartitions(n, c)
			assertTiles(t, partitions, n)
			assert.LessOrEqual(t, len(partitions), c)
		}
	}
}

func TestDegreePartitions_Tiling(t *testing.T) {
	rng := rand.New(rand.NewSource(4711))

	for round := 0; round < 200; round++ {
		n := uint64(rng.Intn(500) + 1)
		c := rng.Intn(16) + 1

		degrees := make([]uint64, n)
		var total, maxDegree uint64
		for i := range degrees {
			// Skewed: most nodes small, a few hubs.
			d := uint64(rng.Intn(4))
			if rng.Intn(50) == 0 {
				d = uint64(rng.Intn(1000))
			}
			degrees[i] = d
			total += d
			maxDegree = max(maxDegree, d)
		}

		partitions := DegreePartitions(n, c, func(id uint64) uint64 { return degrees[id] })
		assertTiles(t, partitions, n)
		assert.LessOrEqual(t, len(partitions), c)

		if total == 0 {
			continue
		}
		bound := (total+uint64(c)-1)/uint64(c) + maxDegree
		for _, p := range partitions {
			var sum uint64
			for id := p.Start; id < p.End(); id++ {
				sum += degrees[id]
			}
			assert.LessOrEqual(t, sum, bound, "partition %v exceeds slack bound", p)
		}
	}
}

func TestDegreePartitions_BalancesSkew(t *testing.T) {
	// One hub at the front carrying half the degree.
	degrees := make([]uint64, 100)
	degrees[0] = 99
	for i := 1; i < 100; i++ {
		degrees[i] = 1
	}

	partitions := DegreePartitions(100, 2, func(id uint64) uint64 { return degrees[id] })
	require.Len(t, partitions, 2)
	assert.Equal(t, Partition{Start: 0, Count: 1}, partitions[0])
	assert.Equal(t, Partition{Start: 1, Count: 99}, partitions[1])

	ranged := RangePartitions(100, 2)
	assert.Equal(t, uint64(50), ranged[0].Count)
}

func TestDegreePartitions_ZeroDegreeFallsBackToRange(t *testing.T) {
	zero := func(uint64) uint64 { return 0 }
	assert.Equal(t, RangePartitions(10, 3), DegreePartitions(10, 3, zero))
}

func TestCompute(t *testing.T) {
	degrees := []uint64{9, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	fn := func(id uint64) uint64 { return degrees[id] }

	assert.Equal(t, RangePartitions(10, 2), Compute(Range, 10, 18, 2, fn))
	assert.Equal(t, DegreePartitions(10, 2, fn), Compute(Degree, 10, 18, 2, fn))
	assert.Equal(t, DegreePartitions(10, 2, fn), Compute(Auto, 10, 18, 2, fn))
	assert.Equal(t, RangePartitions(10, 2), Compute(Auto, 10, 0, 2, fn))
	assert.Equal(t, RangePartitions(10, 1), Compute(Auto, 10, 18, 1, fn))
}

func TestPartition_Contains(t *testing.T) {
	p := Partition{Start: 5, Count: 3}
	assert.False(t, p.Contains(4))
	assert.True(t, p.Contains(5))
	assert.True(t, p.Contains(7))
	assert.False(t, p.Contains(8))
	assert.Equal(t, "Partition{start: 5, count: 3}", p.String())
}
