// Package hud holds the bus consumers that render transient HUD elements from
// pooled display objects.
package hud

import (
	"github.com/KirkDiggler/fps-hud/internal/events"
	"github.com/KirkDiggler/fps-hud/internal/pool"
	"github.com/KirkDiggler/fps-hud/internal/uuid"
)

// Subscriber is the part of the event bus a HUD element listens on
type Subscriber interface {
	Subscribe(eventType string, handler events.HandlerFunc) events.Subscription
	Unsubscribe(sub events.Subscription) bool
}

// PoolOptions sizes the allocator behind a HUD element
type PoolOptions struct {
	InitialSize int
	MaxSize     int
	Policy      pool.Policy
	// Unpooled allocates a fresh element per use; the stress tool uses it as a baseline
	Unpooled    bool
	IDGenerator uuid.Generator
}

func newAllocator[T any](opts PoolOptions, cfg pool.Config[T]) (pool.Allocator[T], error) {
	cfg.InitialSize = opts.InitialSize
	cfg.MaxSize = opts.MaxSize
	cfg.Policy = opts.Policy
	cfg.IDGenerator = opts.IDGenerator

	if opts.Unpooled {
		u, err := pool.NewUnpooled(cfg)
		if err != nil {
			return nil, err
		}
		return u, nil
	}

	p, err := pool.New(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}
