// Package partition splits a dense node-id space into contiguous work units.
//
// Two strategies are provided:
//   - Range: equally sized id ranges, cheap to compute
//   - Degree: ranges balanced by accumulated out-degree, for skewed graphs
//
// Both return partitions that are disjoint and tile [0, nodeCount) exactly.
package partition

import "fmt"

// Partition is a contiguous range [Start, Start+Count) of node ids.
type Partition struct {
	Start uint64
	Count uint64
}

// End returns the exclusive upper bound of the partition.
func (p Partition) End() uint64 {
	return p.Start + p.Count
}

// Contains reports whether the node id falls into the partition.
func (p Partition) Contains(nodeID uint64) bool {
	return nodeID >= p.Start && nodeID < p.End()
}

func (p Partition) String() string {
	return fmt.Sprintf("Partition{start: %d, count: %d}", p.Start, p.Count)
}

// Strategy selects how the node-id space is split.
type Strategy int

const (
	// Auto picks Degree for graphs with relationships and more than one worker,
	// Range otherwise.
	Auto Strategy = iota
	// Range splits by id range size.
	Range
	// Degree splits by accumulated out-degree.
	Degree
)

func (s Strategy) String() string {
	switch s {
	case Auto:
		return "auto"
	case Range:
		return "range"
	case Degree:
		return "degree"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// DegreeFunc returns the work proxy of a node, usually its out-degree.
type DegreeFunc func(nodeID uint64) uint64

// RangePartitions divides [0, nodeCount) into at most concurrency nearly equal
// ranges. The first nodeCount%concurrency ranges hold one extra node. Empty
// partitions are never produced.
func RangePartitions(nodeCount uint64, concurrency int) []Partition {
	if nodeCount == 0 {
		return nil
	}
	c := uint64(max(concurrency, 1))
	if c > nodeCount {
		c = nodeCount
	}

	base := nodeCount / c
	extra := nodeCount % c

	partitions := make([]Partition, 0, c)
	start := uint64(0)
	for i := uint64(0); i < c; i++ {
		count := base
		if i < extra {
			count++
		}
		partitions = append(partitions, Partition{Start: start, Count: count})
		start += count
	}
	return partitions
}

// DegreePartitions walks the id space accumulating degree and closes a
// partition once its degree sum reaches ceil(totalDegree/concurrency). The last
// partition absorbs any remainder. When the graph carries no degree at all the
// result equals RangePartitions.
func DegreePartitions(nodeCount uint64, concurrency int, degree DegreeFunc) []Partition {
	if nodeCount == 0 {
		return nil
	}
	c := uint64(max(concurrency, 1))

	var total uint64
	for id := uint64(0); id < nodeCount; id++ {
		total += degree(id)
	}
	if total == 0 || c == 1 {
		return RangePartitions(nodeCount, int(c))
	}

	target := (total + c - 1) / c

	partitions := make([]Partition, 0, c)
	start := uint64(0)
	var sum uint64
	for id := uint64(0); id < nodeCount; id++ {
		sum += degree(id)
		if sum >= target && uint64(len(partitions)) < c-1 {
			partitions = append(partitions, Partition{Start: start, Count: id - start + 1})
			start = id + 1
			sum = 0
		}
	}

	if start < nodeCount {
		partitions = append(partitions, Partition{Start: start, Count: nodeCount - start})
	}
	return partitions
}

// Compute resolves the strategy and returns the partitions for the graph shape.
func Compute(strategy Strategy, nodeCount, relationshipCount uint64, concurrency int, degree DegreeFunc) []Partition {
	switch strategy {
	case Degree:
		return DegreePartitions(nodeCount, concurrency, degree)
	case Range:
		return RangePartitions(nodeCount, concurrency)
	default:
		if relationshipCount > 0 && concurrency > 1 {
			return DegreePartitions(nodeCount, concurrency, degree)
		}
		return RangePartitions(nodeCount, concurrency)
	}
}
