package messenger

import "iter"

// Messages is the read-only view of the messages a node received in the
// previous superstep.
type Messages struct {
	list   []float64
	single float64
	hasOne bool
}

// NewMessages wraps a list of message values.
func NewMessages(values []float64) Messages {
	return Messages{list: values}
}

func singleMessage(value float64) Messages {
	return Messages{single: value, hasOne: true}
}

// Len returns the number of messages.
func (m Messages) Len() int {
	if m.hasOne {
		return 1
	}
	return len(m.list)
}

// IsEmpty reports whether no message arrived.
func (m Messages) IsEmpty() bool {
	return m.Len() == 0
}

// First returns the first message, if any. For reduced messengers this is
// the folded value.
func (m Messages) First() (float64, bool) {
	if m.hasOne {
		return m.single, true
	}
	if len(m.list) > 0 {
		return m.list[0], true
	}
	return 0, false
}

// All iterates over the message values.
func (m Messages) All() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if m.hasOne {
			yield(m.single)
			return
		}
		for _, v := range m.list {
			if !yield(v) {
				return
			}
		}
	}
}
