package pool

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/uuid"
)

// Policy decides what Acquire does when the pool is at MaxSize with nothing free
type Policy string

const (
	// PolicyGrow treats MaxSize as advisory and keeps creating items
	PolicyGrow Policy = "grow"
	// PolicyReject fails the acquisition with a pool_exhausted error
	PolicyReject Policy = "reject"
	// PolicyEvictOldest reclaims the longest-held in-use item
	PolicyEvictOldest Policy = "evict_oldest"
)

// ParsePolicy converts a configuration string to a Policy
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyGrow, PolicyReject, PolicyEvictOldest:
		return Policy(s), nil
	case "":
		return PolicyGrow, nil
	default:
		return "", errors.InvalidArgumentf("unknown pool policy %q", s)
	}
}

// Config configures a Pool. Hooks run while the pool lock is held and must not
// call back into the pool.
type Config[T any] struct {
	Name        string
	InitialSize int
	// MaxSize of zero means no ceiling
	MaxSize int
	Policy  Policy

	New      func() T
	Activate func(value T, params any)
	Reset    func(value T)
	Destroy  func(value T)
	// OnEvict is told which holder is losing its item under PolicyEvictOldest
	OnEvict func(item *Item[T])

	IDGenerator uuid.Generator
	Logger      *zap.Logger
}

// Stats are cumulative counters plus current snapshots
type Stats struct {
	Available int `json:"available"`
	InUse     int `json:"inUse"`
	Total     int `json:"total"`
	Created   int `json:"created"`
	Acquired  int `json:"acquired"`
	Released  int `json:"released"`
	Evicted   int `json:"evicted,omitempty"`
}

// Allocator is the acquire/release surface shared by pooled and unpooled variants
type Allocator[T any] interface {
	Acquire(params any) (*Item[T], error)
	Release(item *Item[T]) bool
	ReleaseAfter(item *Item[T], d time.Duration) (cancel func() bool)
	Stats() Stats
	Close()
}

// Pool recycles items: the most recently released item is handed out first.
type Pool[T any] struct {
	mu  sync.Mutex
	cfg Config[T]

	free  []*Item[T]
	inUse map[*Item[T]]struct{}
	lease uint64

	created  int
	acquired int
	released int
	evicted  int

	overMax bool
	closed  bool
}

var _ Allocator[int] = (*Pool[int])(nil)

// New creates a pool and pre-warms InitialSize items
func New[T any](cfg Config[T]) (*Pool[T], error) {
	if cfg.New == nil {
		return nil, errors.InvalidArgument("pool constructor is required")
	}
	if cfg.InitialSize < 0 || cfg.MaxSize < 0 {
		return nil, errors.InvalidArgumentf("pool sizes must be non-negative (initial=%d, max=%d)",
			cfg.InitialSize, cfg.MaxSize)
	}
	if cfg.MaxSize > 0 && cfg.InitialSize > cfg.MaxSize {
		return nil, errors.InvalidArgumentf("initial size %d exceeds max size %d", cfg.InitialSize, cfg.MaxSize)
	}
	policy, err := ParsePolicy(string(cfg.Policy))
	if err != nil {
		return nil, err
	}
	cfg.Policy = policy
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Name == "" {
		cfg.Name = "pool"
	}

	p := &Pool[T]{
		cfg:   cfg,
		free:  make([]*Item[T], 0, cfg.InitialSize),
		inUse: make(map[*Item[T]]struct{}),
	}
	for i := 0; i < cfg.InitialSize; i++ {
		p.free = append(p.free, p.newItem())
	}

	cfg.Logger.Debug("pool created",
		zap.String("pool", cfg.Name),
		zap.Int("initial_size", cfg.InitialSize),
		zap.Int("max_size", cfg.MaxSize),
		zap.String("policy", string(cfg.Policy)))

	return p, nil
}

// Name returns the configured pool name
func (p *Pool[T]) Name() string {
	return p.cfg.Name
}

// Acquire hands out an item and runs the Activate hook with params.
// Only PolicyReject and a closed pool return errors.
func (p *Pool[T]) Acquire(params any) (*Item[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, errors.Unavailablef("pool %q is closed", p.cfg.Name)
	}

	item, err := p.take()
	if err != nil {
		return nil, err
	}

	p.lease++
	item.lease.Store(p.lease)
	item.setState(StateInUse)
	p.inUse[item] = struct{}{}
	p.acquired++

	if p.cfg.Activate != nil {
		p.cfg.Activate(item.Value, params)
	}

	return item, nil
}

func (p *Pool[T]) take() (*Item[T], error) {
	if n := len(p.free); n > 0 {
		item := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return item, nil
	}

	if p.cfg.MaxSize == 0 || p.total() < p.cfg.MaxSize {
		return p.newItem(), nil
	}

	switch p.cfg.Policy {
	case PolicyReject:
		return nil, errors.PoolExhausted(p.cfg.Name, p.cfg.MaxSize)
	case PolicyEvictOldest:
		if victim := p.oldestInUse(); victim != nil {
			return p.evict(victim), nil
		}
		return p.newItem(), nil
	default:
		if !p.overMax {
			p.overMax = true
			p.cfg.Logger.Warn("pool grew past max size",
				zap.String("pool", p.cfg.Name),
				zap.Int("max_size", p.cfg.MaxSize))
		}
		return p.newItem(), nil
	}
}

func (p *Pool[T]) evict(victim *Item[T]) *Item[T] {
	delete(p.inUse, victim)
	if p.cfg.OnEvict != nil {
		p.cfg.OnEvict(victim)
	}
	if p.cfg.Reset != nil {
		p.cfg.Reset(victim.Value)
	}
	victim.setState(StateAvailable)
	p.evicted++

	p.cfg.Logger.Debug("pool evicted oldest item",
		zap.String("pool", p.cfg.Name),
		zap.String("item_id", victim.ID))

	return victim
}

func (p *Pool[T]) oldestInUse() *Item[T] {
	var oldest *Item[T]
	for item := range p.inUse {
		if oldest == nil || item.lease.Load() < oldest.lease.Load() {
			oldest = item
		}
	}
	return oldest
}

// Release returns an in-use item to the free list after running the Reset hook.
// Releasing an item that is not in use is a no-op returning false.
func (p *Pool[T]) Release(item *Item[T]) bool {
	if item == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.release(item, 0)
}

// release requires the lock; a non-zero lease must match the item's current lease
func (p *Pool[T]) release(item *Item[T], lease uint64) bool {
	if p.closed {
		return false
	}
	if _, ok := p.inUse[item]; !ok {
		return false
	}
	if lease != 0 && item.lease.Load() != lease {
		return false
	}

	delete(p.inUse, item)
	if p.cfg.Reset != nil {
		p.cfg.Reset(item.Value)
	}
	item.setState(StateAvailable)
	p.free = append(p.free, item)
	p.released++

	return true
}

// ReleaseAfter schedules an automatic release. The timer only releases the lease
// current at scheduling time, so a stale timer never reclaims a reacquired item.
// The returned cancel reports whether the timer was stopped before firing.
func (p *Pool[T]) ReleaseAfter(item *Item[T], d time.Duration) func() bool {
	p.mu.Lock()
	lease := item.lease.Load()
	p.mu.Unlock()

	timer := time.AfterFunc(d, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.release(item, lease)
	})
	return timer.Stop
}

// Stats returns a snapshot of the pool counters
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Available: len(p.free),
		InUse:     len(p.inUse),
		Total:     p.total(),
		Created:   p.created,
		Acquired:  p.acquired,
		Released:  p.released,
		Evicted:   p.evicted,
	}
}

// Close destroys every item; later acquisitions fail with an unavailable error
func (p *Pool[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

	destroyed := 0
	for _, item := range p.free {
		p.destroy(item)
		destroyed++
	}
	for item := range p.inUse {
		p.destroy(item)
		destroyed++
	}
	p.free = nil
	p.inUse = make(map[*Item[T]]struct{})

	p.cfg.Logger.Debug("pool closed",
		zap.String("pool", p.cfg.Name),
		zap.Int("destroyed", destroyed))
}

func (p *Pool[T]) destroy(item *Item[T]) {
	if p.cfg.Destroy != nil {
		p.cfg.Destroy(item.Value)
	}
	item.setState(StateAvailable)
}

func (p *Pool[T]) newItem() *Item[T] {
	p.created++
	return &Item[T]{
		ID:    p.cfg.IDGenerator.New(),
		Value: p.cfg.New(),
	}
}

func (p *Pool[T]) total() int {
	return len(p.free) + len(p.inUse)
}
