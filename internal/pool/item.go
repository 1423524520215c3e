package pool

import "sync/atomic"

// State is the lifecycle state of a pooled item
type State int

const (
	StateAvailable State = iota
	StateInUse
)

func (s State) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateInUse:
		return "in_use"
	default:
		return "unknown"
	}
}

// Item wraps one recyclable value
type Item[T any] struct {
	ID    string
	Value T

	state atomic.Int32
	lease atomic.Uint64
}

// State reports whether the item is available or in use
func (i *Item[T]) State() State {
	return State(i.state.Load())
}

// Lease identifies the current acquisition. Every Acquire hands out a new lease,
// so a holder can tell whether the item was released and handed to someone else.
func (i *Item[T]) Lease() uint64 {
	return i.lease.Load()
}

func (i *Item[T]) setState(s State) {
	i.state.Store(int32(s))
}
