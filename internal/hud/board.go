package hud

import (
	"sync"
	"time"

	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/pool"
	"github.com/KirkDiggler/fps-hud/internal/uuid"
)

// shown is one element on screen. lease pins the acquisition it was created for;
// once the allocator releases or re-leases the item the record is stale.
type shown[T any] struct {
	item   *pool.Item[T]
	lease  uint64
	cancel func() bool
}

// board tracks the visible elements of one HUD widget. Acquisitions happen under
// mu. Expiry is the allocator's ReleaseAfter timer, and eviction arrives through
// OnEvict while show holds mu.
type board[T any] struct {
	mu         sync.Mutex
	alloc      pool.Allocator[T]
	ids        uuid.Generator
	maxVisible int

	shown  []*shown[T]
	closed bool
}

// newBoard builds the allocator for cfg. Element values must be fully written by
// Activate; cfg must not carry a Reset hook, since expiry releases items off mu.
func newBoard[T any](opts PoolOptions, cfg pool.Config[T], maxVisible int) (*board[T], error) {
	b := &board[T]{
		ids:        opts.IDGenerator,
		maxVisible: maxVisible,
	}
	if b.ids == nil {
		b.ids = uuid.NewGoogleUUIDGenerator()
	}

	cfg.OnEvict = b.evicted
	alloc, err := newAllocator(opts, cfg)
	if err != nil {
		return nil, err
	}
	b.alloc = alloc

	return b, nil
}

// show makes room if the board is full, acquires an element and schedules its
// release. Each showing gets a fresh id, passed to params. victim picks the index
// to drop when full, or -1 to refuse the new element, in which case show returns
// nil without error.
func (b *board[T]) show(d time.Duration, victim func(visible []T) int, params func(id string) any) (*pool.Item[T], error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, errors.Unavailablef("display is closed")
	}

	b.prune()
	if b.maxVisible > 0 && len(b.shown) >= b.maxVisible {
		values := make([]T, len(b.shown))
		for i, s := range b.shown {
			values[i] = s.item.Value
		}
		idx := victim(values)
		if idx < 0 {
			return nil, nil
		}
		b.remove(idx)
	}

	item, err := b.alloc.Acquire(params(b.ids.New()))
	if err != nil {
		return nil, err
	}

	b.shown = append(b.shown, &shown[T]{
		item:   item,
		lease:  item.Lease(),
		cancel: b.alloc.ReleaseAfter(item, d),
	})

	return item, nil
}

// evicted is the allocator's OnEvict hook. It runs inside Acquire, which only
// show calls, so mu is already held.
func (b *board[T]) evicted(item *pool.Item[T]) {
	for i, s := range b.shown {
		if s.item == item && s.lease == item.Lease() {
			s.cancel()
			b.shown = append(b.shown[:i], b.shown[i+1:]...)
			return
		}
	}
}

// dismiss removes the first visible element matching fn
func (b *board[T]) dismiss(fn func(value T) bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.prune()
	for i, s := range b.shown {
		if fn(s.item.Value) {
			b.remove(i)
			return true
		}
	}
	return false
}

// visit calls fn for each visible element, oldest first, under the lock
func (b *board[T]) visit(fn func(value T)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.prune()
	for _, s := range b.shown {
		fn(s.item.Value)
	}
}

func (b *board[T]) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.prune()
	return len(b.shown)
}

func (b *board[T]) stats() pool.Stats {
	return b.alloc.Stats()
}

func (b *board[T]) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, s := range b.shown {
		s.cancel()
	}
	b.shown = nil
	b.alloc.Close()
}

// remove requires the lock
func (b *board[T]) remove(idx int) {
	s := b.shown[idx]
	s.cancel()
	b.shown = append(b.shown[:idx], b.shown[idx+1:]...)
	if b.current(s) {
		b.alloc.Release(s.item)
	}
}

// prune drops records whose release timer already fired
func (b *board[T]) prune() {
	kept := b.shown[:0]
	for _, s := range b.shown {
		if b.current(s) {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(b.shown); i++ {
		b.shown[i] = nil
	}
	b.shown = kept
}

func (b *board[T]) current(s *shown[T]) bool {
	return s.item.State() == pool.StateInUse && s.item.Lease() == s.lease
}
