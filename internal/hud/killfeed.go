package hud

import (
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/events"
	"github.com/KirkDiggler/fps-hud/internal/logging"
	"github.com/KirkDiggler/fps-hud/internal/pool"
	"github.com/KirkDiggler/fps-hud/internal/standard"
)

const (
	DefaultKillFeedDuration   = 4 * time.Second
	DefaultKillFeedMaxVisible = 5
)

// KillEntry is one line of the kill feed
type KillEntry struct {
	// ID is unique per showing even when the pooled entry is recycled
	ID       string
	Source   string
	Target   string
	Weapon   string
	Headshot bool
	Text     string
	ShownAt  float64
}

type killParams struct {
	id       string
	source   string
	target   string
	weapon   string
	headshot bool
	at       float64
}

// FormatKill renders "<source> ▸ <target> [<weapon>]"; the weapon suffix is
// omitted when unknown
func FormatKill(source, target, weapon string) string {
	text := source + " ▸ " + target
	if weapon != "" {
		text += " [" + weapon + "]"
	}
	return text
}

// KillFeedConfig configures a KillFeed
type KillFeedConfig struct {
	Bus        Subscriber
	Duration   time.Duration
	MaxVisible int
	Pool       PoolOptions
	Logger     *zap.Logger
}

// KillFeed shows enemy:killed events as short-lived lines, oldest dropped first
type KillFeed struct {
	bus      Subscriber
	sub      events.Subscription
	board    *board[*KillEntry]
	duration time.Duration
	logger   *zap.Logger
}

// NewKillFeed creates a kill feed and subscribes it to enemy:killed
func NewKillFeed(cfg *KillFeedConfig) (*KillFeed, error) {
	if cfg == nil || cfg.Bus == nil {
		return nil, errors.InvalidArgument("kill feed requires a bus")
	}

	f := &KillFeed{
		bus:      cfg.Bus,
		duration: cfg.Duration,
		logger:   logging.OrNop(cfg.Logger),
	}
	if f.duration <= 0 {
		f.duration = DefaultKillFeedDuration
	}
	maxVisible := cfg.MaxVisible
	if maxVisible <= 0 {
		maxVisible = DefaultKillFeedMaxVisible
	}

	display, err := newBoard(cfg.Pool, pool.Config[*KillEntry]{
		Name:     "kill_feed",
		New:      func() *KillEntry { return &KillEntry{} },
		Activate: activateKill,
		Logger:   f.logger,
	}, maxVisible)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create kill feed pool")
	}

	f.board = display
	f.sub = cfg.Bus.Subscribe(events.EnemyKilled, f.handleKill)

	return f, nil
}

func activateKill(e *KillEntry, params any) {
	p, ok := params.(killParams)
	if !ok {
		return
	}
	*e = KillEntry{
		ID:       p.id,
		Source:   p.source,
		Target:   p.target,
		Weapon:   p.weapon,
		Headshot: p.headshot,
		Text:     FormatKill(p.source, p.target, p.weapon),
		ShownAt:  p.at,
	}
}

func (f *KillFeed) handleKill(event *events.Event) error {
	kill, err := standard.DecodeCombat(event)
	if err != nil {
		return err
	}

	_, err = f.board.show(f.duration, dropOldest[*KillEntry], func(id string) any {
		return killParams{
			id:       id,
			source:   actorLabel(kill.Source),
			target:   actorLabel(kill.Target),
			weapon:   kill.Weapon,
			headshot: kill.Headshot,
			at:       event.Timestamp,
		}
	})
	if err != nil {
		return errors.Wrap(err, "failed to show kill")
	}
	return nil
}

func dropOldest[T any](visible []T) int {
	return 0
}

func actorLabel(a *standard.Actor) string {
	switch {
	case a == nil:
		return "unknown"
	case a.Name != "":
		return a.Name
	case a.ID != "":
		return a.ID
	default:
		return "unknown"
	}
}

// Visible returns copies of the lines on screen, oldest first
func (f *KillFeed) Visible() []KillEntry {
	var out []KillEntry
	f.board.visit(func(e *KillEntry) {
		out = append(out, *e)
	})
	return out
}

// Len returns the number of lines on screen
func (f *KillFeed) Len() int {
	return f.board.count()
}

// Stats returns the allocator counters
func (f *KillFeed) Stats() pool.Stats {
	return f.board.stats()
}

// Close unsubscribes the feed and destroys its entries
func (f *KillFeed) Close() {
	f.bus.Unsubscribe(f.sub)
	f.board.close()
}
