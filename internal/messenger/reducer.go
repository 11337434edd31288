package messenger

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidReducer is returned when a reducer cannot serve as a message fold.
var ErrInvalidReducer = errors.New("invalid reducer")

// Reducer folds messages sent to the same node into a single value.
//
// Reduce must be associative and commutative; messages arrive in scheduling
// order and are combined as they are sent.
type Reducer interface {
	// Identity is the initial accumulator value.
	Identity() float64
	// Reduce combines the current accumulator with a new message.
	Reduce(current, message float64) float64
}

// Sum adds all messages.
type Sum struct{}

func (Sum) Identity() float64 {
	return 0
}

func (Sum) Reduce(current, message float64) float64 {
	return current + message
}

func (Sum) String() string {
	return "sum"
}

// Min keeps the smallest message.
type Min struct{}

func (Min) Identity() float64 {
	return math.Inf(1)
}

func (Min) Reduce(current, message float64) float64 {
	return math.Min(current, message)
}

func (Min) String() string {
	return "min"
}

// Max keeps the largest message.
type Max struct{}

func (Max) Identity() float64 {
	return math.Inf(-1)
}

func (Max) Reduce(current, message float64) float64 {
	return math.Max(current, message)
}

func (Max) String() string {
	return "max"
}

// Count counts messages, ignoring their values.
type Count struct{}

func (Count) Identity() float64 {
	return 0
}

func (Count) Reduce(current, _ float64) float64 {
	return current + 1
}

func (Count) String() string {
	return "count"
}

// ValidateReducer checks that the reducer is usable over the float64 domain.
func ValidateReducer(r Reducer) error {
	if r == nil {
		return fmt.Errorf("%w: nil reducer", ErrInvalidReducer)
	}
	if math.IsNaN(r.Identity()) {
		return fmt.Errorf("%w: identity of %T is NaN", ErrInvalidReducer, r)
	}
	return nil
}
