package pool

import (
	"sync"
	"time"

	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/uuid"
)

// Unpooled builds a fresh item for every acquisition and destroys it on release.
// It is the baseline the stress tool compares pools against.
type Unpooled[T any] struct {
	mu  sync.Mutex
	cfg Config[T]

	live     map[*Item[T]]struct{}
	created  int
	acquired int
	released int
	lease    uint64
	closed   bool
}

var _ Allocator[int] = (*Unpooled[int])(nil)

// NewUnpooled creates an allocator with the same hooks as a pool but no recycling
func NewUnpooled[T any](cfg Config[T]) (*Unpooled[T], error) {
	if cfg.New == nil {
		return nil, errors.InvalidArgument("constructor is required")
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = uuid.NewGoogleUUIDGenerator()
	}
	return &Unpooled[T]{
		cfg:  cfg,
		live: make(map[*Item[T]]struct{}),
	}, nil
}

// Acquire constructs and activates a new item
func (u *Unpooled[T]) Acquire(params any) (*Item[T], error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return nil, errors.Unavailablef("allocator %q is closed", u.cfg.Name)
	}

	item := &Item[T]{
		ID:    u.cfg.IDGenerator.New(),
		Value: u.cfg.New(),
	}
	u.lease++
	item.lease.Store(u.lease)
	item.setState(StateInUse)
	u.live[item] = struct{}{}
	u.created++
	u.acquired++

	if u.cfg.Activate != nil {
		u.cfg.Activate(item.Value, params)
	}
	return item, nil
}

// Release destroys a live item
func (u *Unpooled[T]) Release(item *Item[T]) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.release(item)
}

func (u *Unpooled[T]) release(item *Item[T]) bool {
	if _, ok := u.live[item]; !ok {
		return false
	}
	delete(u.live, item)
	if u.cfg.Destroy != nil {
		u.cfg.Destroy(item.Value)
	}
	item.setState(StateAvailable)
	u.released++
	return true
}

// ReleaseAfter schedules an automatic release
func (u *Unpooled[T]) ReleaseAfter(item *Item[T], d time.Duration) func() bool {
	timer := time.AfterFunc(d, func() {
		u.mu.Lock()
		defer u.mu.Unlock()
		u.release(item)
	})
	return timer.Stop
}

// Stats reports counters in the same shape as a pool; nothing is ever available
func (u *Unpooled[T]) Stats() Stats {
	u.mu.Lock()
	defer u.mu.Unlock()

	return Stats{
		InUse:    len(u.live),
		Total:    len(u.live),
		Created:  u.created,
		Acquired: u.acquired,
		Released: u.released,
	}
}

// Close destroys every live item
func (u *Unpooled[T]) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return
	}
	u.closed = true
	for item := range u.live {
		u.release(item)
	}
}
