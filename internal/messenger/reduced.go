package messenger

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/hupe1980/pregel/internal/bitset"
)

// Reduced folds messages into one accumulator per node.
type Reduced struct {
	nodeCount uint64
	reducer   Reducer
	identity  uint64

	read, write         []atomic.Uint64
	readSeen, writeSeen *bitset.BitSet
}

// NewReduced allocates both accumulator buffers for nodeCount nodes.
func NewReduced(nodeCount uint64, reducer Reducer) (*Reduced, error) {
	if err := ValidateReducer(reducer); err != nil {
		return nil, err
	}

	m := &Reduced{
		nodeCount: nodeCount,
		reducer:   reducer,
		identity:  math.Float64bits(reducer.Identity()),
		read:      make([]atomic.Uint64, nodeCount),
		write:     make([]atomic.Uint64, nodeCount),
		readSeen:  bitset.New(nodeCount),
		writeSeen: bitset.New(nodeCount),
	}
	for i := range m.read {
		m.read[i].Store(m.identity)
		m.write[i].Store(m.identity)
	}
	return m, nil
}

// InitIteration implements Messenger.
func (m *Reduced) InitIteration(int) {
	m.read, m.write = m.write, m.read
	m.readSeen, m.writeSeen = m.writeSeen, m.readSeen

	// Only slots that received something hold a non-identity value.
	for i := m.writeSeen.NextSetBit(0); i >= 0; i = m.writeSeen.NextSetBit(uint64(i) + 1) {
		m.write[i].Store(m.identity)
	}
	m.writeSeen.ClearAll()
}

// SendTo implements Messenger. Concurrent senders to the same node never block.
func (m *Reduced) SendTo(target uint64, value float64) error {
	if target >= m.nodeCount {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidNodeID, target, m.nodeCount)
	}

	slot := &m.write[target]
	for {
		old := slot.Load()
		next := math.Float64bits(m.reducer.Reduce(math.Float64frombits(old), value))
		if next == old || slot.CompareAndSwap(old, next) {
			break
		}
	}
	m.writeSeen.Set(target)
	return nil
}

// Messages implements Messenger. It yields at most one value.
func (m *Reduced) Messages(node uint64) Messages {
	if !m.readSeen.Test(node) {
		return Messages{}
	}
	return singleMessage(math.Float64frombits(m.read[node].Load()))
}

// HasMessages implements Messenger.
func (m *Reduced) HasMessages(node uint64) bool {
	return m.readSeen.Test(node)
}

// Release implements Messenger.
func (m *Reduced) Release() {
	m.read, m.write = nil, nil
	m.readSeen, m.writeSeen = nil, nil
}
