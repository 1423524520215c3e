package hud

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/events"
	"github.com/KirkDiggler/fps-hud/internal/logging"
	"github.com/KirkDiggler/fps-hud/internal/pool"
	"github.com/KirkDiggler/fps-hud/internal/standard"
)

const (
	DefaultNotificationDuration = 3 * time.Second
	DefaultNotificationMax      = 3
)

// Toast is one on-screen notification
type Toast struct {
	// ID is unique per showing; dismiss by it
	ID       string
	Message  string
	Title    string
	Icon     string
	Kind     string
	Priority int
	Duration time.Duration
	ShownAt  float64
}

type toastParams struct {
	id   string
	note standard.Notification
	at   float64
}

// NotificationsConfig configures Notifications
type NotificationsConfig struct {
	Bus Subscriber
	// DefaultDuration applies when a notification does not carry its own
	DefaultDuration time.Duration
	MaxVisible      int
	Pool            PoolOptions
	Logger          *zap.Logger
}

// Notifications shows notification:show events as toasts. When the screen is
// full a new toast replaces the lowest priority one, oldest first, unless its own
// priority is lower still.
type Notifications struct {
	bus             Subscriber
	subs            []events.Subscription
	board           *board[*Toast]
	defaultDuration time.Duration
	logger          *zap.Logger
}

// NewNotifications creates the toast stack and subscribes it to notification:show
// and notification:dismiss
func NewNotifications(cfg *NotificationsConfig) (*Notifications, error) {
	if cfg == nil || cfg.Bus == nil {
		return nil, errors.InvalidArgument("notifications require a bus")
	}

	n := &Notifications{
		bus:             cfg.Bus,
		defaultDuration: cfg.DefaultDuration,
		logger:          logging.OrNop(cfg.Logger),
	}
	if n.defaultDuration <= 0 {
		n.defaultDuration = DefaultNotificationDuration
	}
	maxVisible := cfg.MaxVisible
	if maxVisible <= 0 {
		maxVisible = DefaultNotificationMax
	}

	display, err := newBoard(cfg.Pool, pool.Config[*Toast]{
		Name:     "notifications",
		New:      func() *Toast { return &Toast{} },
		Activate: activateToast,
		Logger:   n.logger,
	}, maxVisible)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create notification pool")
	}

	n.board = display
	n.subs = []events.Subscription{
		cfg.Bus.Subscribe(events.NotificationShow, n.handleShow),
		cfg.Bus.Subscribe(events.NotificationDismiss, n.handleDismiss),
	}

	return n, nil
}

func activateToast(t *Toast, params any) {
	p, ok := params.(toastParams)
	if !ok {
		return
	}
	*t = Toast{
		ID:       p.id,
		Message:  p.note.Message,
		Title:    p.note.Title,
		Icon:     p.note.Icon,
		Kind:     p.note.Kind,
		Priority: p.note.Priority,
		Duration: p.note.Duration,
		ShownAt:  p.at,
	}
}

func (n *Notifications) handleShow(event *events.Event) error {
	note, err := standard.DecodeNotification(event)
	if err != nil {
		return err
	}
	if note.Duration <= 0 {
		note.Duration = n.defaultDuration
	}

	victim := func(visible []*Toast) int {
		idx := lowestPriority(visible)
		if note.Priority < visible[idx].Priority {
			return -1
		}
		return idx
	}

	item, err := n.board.show(note.Duration, victim, func(id string) any {
		return toastParams{id: id, note: note, at: event.Timestamp}
	})
	if err != nil {
		return errors.Wrap(err, "failed to show notification")
	}
	if item == nil {
		n.logger.Debug("notification dropped",
			zap.String("message", note.Message),
			zap.Int("priority", note.Priority))
	}
	return nil
}

// lowestPriority returns the index of the lowest priority toast; visible is
// oldest first so ties resolve to the oldest
func lowestPriority(visible []*Toast) int {
	idx := 0
	for i, t := range visible {
		if t.Priority < visible[idx].Priority {
			idx = i
		}
	}
	return idx
}

func (n *Notifications) handleDismiss(event *events.Event) error {
	id := event.String("id")
	if id == "" {
		return errors.InvalidArgument("notification:dismiss requires an id")
	}
	n.Dismiss(id)
	return nil
}

// Dismiss removes the toast with the given id before it expires. Ids are unique
// per showing, so dismissing a toast that already left is a no-op.
func (n *Notifications) Dismiss(id string) bool {
	return n.board.dismiss(func(t *Toast) bool {
		return t.ID == id
	})
}

// Visible returns copies of the toasts on screen, highest priority first
func (n *Notifications) Visible() []Toast {
	var out []Toast
	n.board.visit(func(t *Toast) {
		out = append(out, *t)
	})

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// Stats returns the allocator counters
func (n *Notifications) Stats() pool.Stats {
	return n.board.stats()
}

// Close unsubscribes and destroys every toast
func (n *Notifications) Close() {
	for _, sub := range n.subs {
		n.bus.Unsubscribe(sub)
	}
	n.board.close()
}
