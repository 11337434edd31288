package messenger

import (
	"fmt"
	"sync"

	"golang.org/x/sys/cpu"

	"github.com/hupe1980/pregel/internal/resource"
)

const (
	stripeBits = 10
	stripes    = 1 << stripeBits
	stripeMask = stripes - 1

	bytesPerMessage = 8
)

type stripe struct {
	sync.Mutex
	_ cpu.CacheLinePad
}

// Queue keeps every message in a per-node list.
type Queue struct {
	nodeCount uint64
	rc        *resource.Controller

	read, write [][]float64
	locks       [stripes]stripe
}

// NewQueue allocates the per-node list headers for nodeCount nodes. List
// storage grows on demand and is reserved against rc; a nil rc disables
// accounting.
func NewQueue(nodeCount uint64, rc *resource.Controller) *Queue {
	return &Queue{
		nodeCount: nodeCount,
		rc:        rc,
		read:      make([][]float64, nodeCount),
		write:     make([][]float64, nodeCount),
	}
}

// InitIteration implements Messenger. List capacity is kept for reuse.
func (m *Queue) InitIteration(int) {
	m.read, m.write = m.write, m.read
	for i := range m.write {
		if m.write[i] != nil {
			m.write[i] = m.write[i][:0]
		}
	}
}

// SendTo implements Messenger.
func (m *Queue) SendTo(target uint64, value float64) error {
	if target >= m.nodeCount {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidNodeID, target, m.nodeCount)
	}

	l := &m.locks[target&stripeMask]
	l.Lock()
	defer l.Unlock()

	list := m.write[target]
	if len(list) == cap(list) {
		grown := max(4, 2*cap(list))
		if err := m.rc.Reserve(int64(grown-cap(list)) * bytesPerMessage); err != nil {
			return fmt.Errorf("%w: node %d: %w", ErrMemoryExhausted, target, err)
		}
		next := make([]float64, len(list), grown)
		copy(next, list)
		list = next
	}
	m.write[target] = append(list, value)
	return nil
}

// Messages implements Messenger.
func (m *Queue) Messages(node uint64) Messages {
	return NewMessages(m.read[node])
}

// HasMessages implements Messenger.
func (m *Queue) HasMessages(node uint64) bool {
	return len(m.read[node]) > 0
}

// Release implements Messenger.
func (m *Queue) Release() {
	m.read, m.write = nil, nil
	m.rc.ReleaseAll()
}
