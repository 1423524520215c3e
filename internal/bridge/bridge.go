package bridge

//go:generate mockgen -destination=mock/mock_emitter.go -package=mockbridge -source=bridge.go

import (
	"sync"

	"go.uber.org/zap"

	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/events"
	"github.com/KirkDiggler/fps-hud/internal/standard"
)

// Emitter is the part of the event bus the bridge publishes through
type Emitter interface {
	EmitEvent(event *events.Event)
}

// Kill is one enemy kill reported by the simulation since the previous tick
type Kill struct {
	EnemyID   string
	EnemyName string
	EnemyType string
	// Weapon defaults to the snapshot's current weapon
	Weapon   string
	Headshot bool
	Distance float64
}

// Snapshot is the player state the simulation reports every frame
type Snapshot struct {
	Health    float64
	MaxHealth float64
	Ammo      int
	MaxAmmo   int
	Weapon    string
	Kills     []Kill
	XP        int
	// NextLevelXP is the XP total that reaches the next level, zero when unknown
	NextLevelXP int
	Level       int
}

// Config configures a Bridge
type Config struct {
	Emitter Emitter
	Engine  *standard.Engine
	// Player is reported as the source of kill events
	Player standard.Actor
	Logger *zap.Logger
}

// Bridge translates simulation snapshots into standardized bus events
type Bridge struct {
	mu      sync.Mutex
	emitter Emitter
	engine  *standard.Engine
	player  standard.Actor
	logger  *zap.Logger

	last   Snapshot
	seeded bool
}

// New creates a bridge
func New(cfg *Config) (*Bridge, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("bridge config is required")
	}
	if cfg.Emitter == nil {
		return nil, errors.InvalidArgument("emitter is required")
	}
	if cfg.Engine == nil {
		return nil, errors.InvalidArgument("standardization engine is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Bridge{
		emitter: cfg.Emitter,
		engine:  cfg.Engine,
		player:  cfg.Player,
		logger:  logger,
	}, nil
}

// Tick diffs snap against the previous snapshot and emits one event per change.
// The first tick records state and only reports the kills it carries. Events are
// built under the lock and emitted after it is released, so handlers may call
// back into the bridge. Returns the number of events emitted.
func (b *Bridge) Tick(snap Snapshot) int {
	pending := b.diff(snap)
	for _, event := range pending {
		b.emitter.EmitEvent(event)
	}
	return len(pending)
}

func (b *Bridge) diff(snap Snapshot) []*events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	var pending []*events.Event

	if !b.seeded {
		b.seeded = true
		b.last = snap
		b.last.Kills = nil
		b.logger.Debug("bridge seeded",
			zap.Float64("health", snap.Health),
			zap.Int("ammo", snap.Ammo),
			zap.String("weapon", snap.Weapon),
			zap.Int("kills", len(snap.Kills)))
		return b.kills(pending, snap)
	}

	prev := b.last

	if snap.Health != prev.Health {
		pending = append(pending, b.engine.CreateStateChangeEvent(events.HealthChanged, standard.StateChange{
			Value:    snap.Health,
			Previous: prev.Health,
			Delta:    snap.Health - prev.Health,
			Max:      snap.MaxHealth,
		}))
	}

	if snap.Ammo != prev.Ammo {
		pending = append(pending, b.engine.CreateStateChangeEvent(events.AmmoChanged, standard.StateChange{
			Value:    float64(snap.Ammo),
			Previous: float64(prev.Ammo),
			Delta:    float64(snap.Ammo - prev.Ammo),
			Max:      float64(snap.MaxAmmo),
		}))
	}

	if snap.Weapon != prev.Weapon {
		pending = append(pending, b.engine.CreateStandardEvent(events.WeaponSwitched, map[string]any{
			"weapon":   snap.Weapon,
			"previous": prev.Weapon,
		}))
	}

	pending = b.kills(pending, snap)

	if snap.XP > prev.XP {
		pending = append(pending, b.engine.CreateProgressEvent(events.XPGained, standard.Progress{
			Current: float64(snap.XP),
			Target:  float64(snap.NextLevelXP),
			Delta:   float64(snap.XP - prev.XP),
			Level:   snap.Level,
		}))
	}

	if snap.Level != prev.Level {
		pending = append(pending, b.engine.CreateStateChangeEvent(events.LevelChanged, standard.StateChange{
			Value:    float64(snap.Level),
			Previous: float64(prev.Level),
			Delta:    float64(snap.Level - prev.Level),
		}))
	}

	b.last = snap
	b.last.Kills = nil

	return pending
}

// kills appends one enemy:killed event per kill in snap
func (b *Bridge) kills(pending []*events.Event, snap Snapshot) []*events.Event {
	for _, kill := range snap.Kills {
		weapon := kill.Weapon
		if weapon == "" {
			weapon = snap.Weapon
		}
		player := b.player
		pending = append(pending, b.engine.CreateCombatEvent(events.EnemyKilled, standard.Combat{
			Source:   &player,
			Target:   &standard.Actor{ID: kill.EnemyID, Name: kill.EnemyName, Type: kill.EnemyType},
			Weapon:   weapon,
			Headshot: kill.Headshot,
			Distance: kill.Distance,
		}))
	}
	return pending
}

// Reset forgets the previous snapshot so the next tick seeds again, e.g. on respawn
func (b *Bridge) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seeded = false
	b.last = Snapshot{}
}
