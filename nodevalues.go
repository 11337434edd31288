package pregel

import "fmt"

type column struct {
	element      Element
	longs        []int64
	doubles      []float64
	longArrays   [][]int64
	doubleArrays [][]float64
	released     bool
}

// NodeValues is the columnar per-node property store described by a Schema.
//
// Every slot is a dense column indexed by node id. During a run each node's
// slots are written only by the compute step owning the node, so columns need
// no synchronization. After the run, Result.Values exposes the public slots.
type NodeValues struct {
	nodeCount  uint64
	columns    []*column
	index      map[string]int
	publicOnly bool
}

func newNodeValues(schema *Schema, nodeCount uint64) (*NodeValues, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	v := &NodeValues{
		nodeCount: nodeCount,
		index:     make(map[string]int, len(schema.elements)),
	}

	for i, e := range schema.elements {
		c := &column{element: e}
		switch e.Type {
		case Long:
			c.longs = make([]int64, nodeCount)
			if def, ok := e.Default.(int64); ok && def != 0 {
				for n := range c.longs {
					c.longs[n] = def
				}
			}
		case Double:
			c.doubles = make([]float64, nodeCount)
			if def, ok := e.Default.(float64); ok && def != 0 {
				for n := range c.doubles {
					c.doubles[n] = def
				}
			}
		case LongArray:
			c.longArrays = make([][]int64, nodeCount)
		case DoubleArray:
			c.doubleArrays = make([][]float64, nodeCount)
		}
		v.columns = append(v.columns, c)
		v.index[e.Key] = i
	}

	return v, nil
}

// publicView returns a view sharing the columns but hiding private slots.
func (v *NodeValues) publicView() *NodeValues {
	return &NodeValues{
		nodeCount:  v.nodeCount,
		columns:    v.columns,
		index:      v.index,
		publicOnly: true,
	}
}

// release drops the column data. Views sharing the columns observe it.
func (v *NodeValues) release() {
	for _, c := range v.columns {
		c.longs = nil
		c.doubles = nil
		c.longArrays = nil
		c.doubleArrays = nil
		c.released = true
	}
}

func (v *NodeValues) column(key string, typ ValueType) (*column, error) {
	i, ok := v.index[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	c := v.columns[i]
	if c.released {
		return nil, ErrReleased
	}
	if v.publicOnly && c.element.Visibility == Private {
		return nil, fmt.Errorf("%w: %q is private", ErrUnknownKey, key)
	}
	if c.element.Type != typ {
		return nil, fmt.Errorf("%w: %q is %v, accessed as %v", ErrTypeMismatch, key, c.element.Type, typ)
	}
	return c, nil
}

// mustColumn resolves a column for context accessors, where misuse is a
// programming error that aborts the run.
func (v *NodeValues) mustColumn(key string, typ ValueType) *column {
	c, err := v.column(key, typ)
	if err != nil {
		violate(err)
	}
	return c
}

// NodeCount returns the number of nodes.
func (v *NodeValues) NodeCount() uint64 {
	return v.nodeCount
}

// Elements returns the visible slots in declaration order.
func (v *NodeValues) Elements() []Element {
	out := make([]Element, 0, len(v.columns))
	for _, c := range v.columns {
		if v.publicOnly && c.element.Visibility == Private {
			continue
		}
		out = append(out, c.element)
	}
	return out
}

// Longs returns the column of a Long slot. The slice must not be modified.
func (v *NodeValues) Longs(key string) ([]int64, error) {
	c, err := v.column(key, Long)
	if err != nil {
		return nil, err
	}
	return c.longs, nil
}

// Doubles returns the column of a Double slot. The slice must not be modified.
func (v *NodeValues) Doubles(key string) ([]float64, error) {
	c, err := v.column(key, Double)
	if err != nil {
		return nil, err
	}
	return c.doubles, nil
}

// LongArrays returns the column of a LongArray slot. The slices must not be modified.
func (v *NodeValues) LongArrays(key string) ([][]int64, error) {
	c, err := v.column(key, LongArray)
	if err != nil {
		return nil, err
	}
	return c.longArrays, nil
}

// DoubleArrays returns the column of a DoubleArray slot. The slices must not be modified.
func (v *NodeValues) DoubleArrays(key string) ([][]float64, error) {
	c, err := v.column(key, DoubleArray)
	if err != nil {
		return nil, err
	}
	return c.doubleArrays, nil
}

// Long returns the Long value of a single node.
func (v *NodeValues) Long(key string, nodeID uint64) (int64, error) {
	col, err := v.Longs(key)
	if err != nil {
		return 0, err
	}
	if nodeID >= v.nodeCount {
		return 0, fmt.Errorf("%w: %d", ErrInvalidNodeID, nodeID)
	}
	return col[nodeID], nil
}

// Double returns the Double value of a single node.
func (v *NodeValues) Double(key string, nodeID uint64) (float64, error) {
	col, err := v.Doubles(key)
	if err != nil {
		return 0, err
	}
	if nodeID >= v.nodeCount {
		return 0, fmt.Errorf("%w: %d", ErrInvalidNodeID, nodeID)
	}
	return col[nodeID], nil
}
