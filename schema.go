package pregel

import (
	"errors"
	"fmt"
)

// ValueType is the type of a node value slot.
type ValueType int

const (
	// Long is an int64 per node.
	Long ValueType = iota
	// Double is a float64 per node.
	Double
	// LongArray is an []int64 per node.
	LongArray
	// DoubleArray is a []float64 per node.
	DoubleArray
)

func (t ValueType) String() string {
	switch t {
	case Long:
		return "long"
	case Double:
		return "double"
	case LongArray:
		return "long[]"
	case DoubleArray:
		return "double[]"
	default:
		return fmt.Sprintf("ValueType(%d)", int(t))
	}
}

// Visibility controls whether a slot is part of the result.
type Visibility int

const (
	// Public slots are readable from Result.Values after the run.
	Public Visibility = iota
	// Private slots are scratch space of the computation.
	Private
)

func (v Visibility) String() string {
	if v == Private {
		return "private"
	}
	return "public"
}

// Element describes one node value slot. Default is the initial value of
// every node: nil, an int64 for Long or a float64 for Double.
type Element struct {
	Key        string
	Type       ValueType
	Visibility Visibility
	Default    any
}

// Schema declares the node value slots of a computation. The layout is fixed
// once an engine is created.
type Schema struct {
	elements []Element
	keys     map[string]struct{}
	errs     []error
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{keys: make(map[string]struct{})}
}

// Add declares a slot without default value.
func (s *Schema) Add(key string, typ ValueType, visibility Visibility) *Schema {
	return s.add(Element{Key: key, Type: typ, Visibility: visibility})
}

// AddLong declares a Long slot initialized to def.
func (s *Schema) AddLong(key string, def int64, visibility Visibility) *Schema {
	return s.add(Element{Key: key, Type: Long, Visibility: visibility, Default: def})
}

// AddDouble declares a Double slot initialized to def.
func (s *Schema) AddDouble(key string, def float64, visibility Visibility) *Schema {
	return s.add(Element{Key: key, Type: Double, Visibility: visibility, Default: def})
}

func (s *Schema) add(e Element) *Schema {
	if e.Key == "" {
		s.errs = append(s.errs, fmt.Errorf("%w: empty key", ErrInvalidSchema))
		return s
	}
	if e.Type < Long || e.Type > DoubleArray {
		s.errs = append(s.errs, fmt.Errorf("%w: key %q has unknown type %v", ErrInvalidSchema, e.Key, e.Type))
		return s
	}
	if _, ok := s.keys[e.Key]; ok {
		s.errs = append(s.errs, fmt.Errorf("%w: %q declared twice", ErrSchemaConflict, e.Key))
		return s
	}
	switch e.Default.(type) {
	case nil:
	case int64:
		if e.Type != Long {
			s.errs = append(s.errs, fmt.Errorf("%w: int64 default for %v key %q", ErrInvalidSchema, e.Type, e.Key))
			return s
		}
	case float64:
		if e.Type != Double {
			s.errs = append(s.errs, fmt.Errorf("%w: float64 default for %v key %q", ErrInvalidSchema, e.Type, e.Key))
			return s
		}
	default:
		s.errs = append(s.errs, fmt.Errorf("%w: unsupported default %T for key %q", ErrInvalidSchema, e.Default, e.Key))
		return s
	}

	s.keys[e.Key] = struct{}{}
	s.elements = append(s.elements, e)
	return s
}

// Validate returns every declaration error collected so far.
func (s *Schema) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	return errors.Join(s.errs...)
}

// Elements returns the declared slots in declaration order.
func (s *Schema) Elements() []Element {
	out := make([]Element, len(s.elements))
	copy(out, s.elements)
	return out
}
