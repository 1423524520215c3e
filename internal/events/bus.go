package events

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/fps-hud/internal/errors"
)

// Subscription identifies one handler's registration for removal
type Subscription struct {
	ID        uint64
	EventType string
}

// Stats is an aggregate snapshot for tooling and dashboards
type Stats struct {
	EventTypeCount     int            `json:"eventTypeCount"`
	TotalSubscriptions int            `json:"totalSubscriptions"`
	PerTypeCounts      map[string]int `json:"perTypeCounts"`
	Emitted            uint64         `json:"emitted"`
	Delivered          uint64         `json:"delivered"`
	Failed             uint64         `json:"failed"`
}

// BusConfig configures a Bus
type BusConfig struct {
	Logger           *zap.Logger
	Validator        Validator
	Debug            bool
	ValidateNames    bool
	ValidatePayloads bool
}

type subscriber struct {
	id       uint64
	listener Listener
}

// Bus delivers events synchronously, in subscription order, to handlers keyed by
// "namespace:action" strings. Handler failures are logged and never reach the emitter.
type Bus struct {
	mu sync.RWMutex
	// subscriber slices are copy-on-write so an emission can iterate its snapshot
	// while handlers subscribe or unsubscribe
	handlers map[string][]subscriber
	nextID   uint64

	logger    *zap.Logger
	validator Validator
	origin    time.Time

	debug            atomic.Bool
	validateNames    atomic.Bool
	validatePayloads atomic.Bool

	emitted   atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
}

// NewBus creates a new event bus
func NewBus(cfg *BusConfig) *Bus {
	if cfg == nil {
		cfg = &BusConfig{}
	}

	b := &Bus{
		handlers:  make(map[string][]subscriber),
		logger:    cfg.Logger,
		validator: cfg.Validator,
		origin:    time.Now(),
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	b.debug.Store(cfg.Debug)
	b.validateNames.Store(cfg.ValidateNames)
	b.validatePayloads.Store(cfg.ValidatePayloads)

	return b
}

// Subscribe registers handler for eventType. It always succeeds.
func (b *Bus) Subscribe(eventType string, handler HandlerFunc) Subscription {
	return b.add(eventType, handler)
}

// On registers a listener; Off removes it again by identity
func (b *Bus) On(eventType string, listener Listener) Subscription {
	return b.add(eventType, listener)
}

func (b *Bus) add(eventType string, listener Listener) Subscription {
	b.mu.Lock()
	b.nextID++
	id := b.nextID

	current := b.handlers[eventType]
	next := make([]subscriber, len(current), len(current)+1)
	copy(next, current)
	b.handlers[eventType] = append(next, subscriber{id: id, listener: listener})
	b.mu.Unlock()

	if b.debug.Load() {
		b.logger.Info("EventBus: subscribed",
			zap.Uint64("subscription_id", id),
			zap.String("event_type", eventType),
			zap.Int("listeners", len(next)+1))
	}

	return Subscription{ID: id, EventType: eventType}
}

// Unsubscribe removes a subscription. It returns false when the token is unknown,
// which makes repeated calls harmless.
func (b *Bus) Unsubscribe(sub Subscription) bool {
	return b.remove(sub.EventType, func(s subscriber) bool { return s.id == sub.ID })
}

// Off removes the first registration of listener for eventType. Function
// listeners match by code pointer, other listeners by equality.
func (b *Bus) Off(eventType string, listener Listener) bool {
	return b.remove(eventType, func(s subscriber) bool { return sameListener(s.listener, listener) })
}

func (b *Bus) remove(eventType string, match func(subscriber) bool) bool {
	b.mu.Lock()
	current, ok := b.handlers[eventType]
	if !ok {
		b.mu.Unlock()
		return false
	}

	idx := -1
	for i, s := range current {
		if match(s) {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.mu.Unlock()
		return false
	}

	removed := current[idx].id
	remaining := len(current) - 1
	if remaining == 0 {
		delete(b.handlers, eventType)
	} else {
		next := make([]subscriber, 0, remaining)
		next = append(next, current[:idx]...)
		next = append(next, current[idx+1:]...)
		b.handlers[eventType] = next
	}
	b.mu.Unlock()

	if b.debug.Load() {
		b.logger.Info("EventBus: unsubscribed",
			zap.Uint64("subscription_id", removed),
			zap.String("event_type", eventType),
			zap.Int("listeners", remaining))
	}

	return true
}

// Emit builds one Event from eventType and a shallow copy of data and delivers it.
// Emitting a type nobody listens to is a no-op.
func (b *Bus) Emit(eventType string, data map[string]any) {
	b.EmitEvent(NewEvent(eventType, data))
}

// EmitEvent delivers a pre-built event, e.g. one shaped by the standardization engine.
// A zero Timestamp is stamped with the bus clock.
func (b *Bus) EmitEvent(event *Event) {
	if event == nil {
		return
	}
	if event.Timestamp == 0 {
		event.Timestamp = b.now()
	}
	if event.Category == "" {
		event.Category = CategoryGeneric
	}
	if event.Data == nil {
		event.Data = map[string]any{}
	}

	b.emitted.Add(1)
	b.validate(event)

	b.mu.RLock()
	snapshot := b.handlers[event.Type]
	b.mu.RUnlock()

	if len(snapshot) == 0 {
		if b.debug.Load() {
			b.logger.Info("EventBus: no listeners", zap.String("event_type", event.Type))
		}
		return
	}

	if b.debug.Load() {
		b.logger.Info("EventBus: emitting",
			zap.String("event_type", event.Type),
			zap.Int("listeners", len(snapshot)))
	}

	for _, s := range snapshot {
		if err := b.deliver(s, event); err != nil {
			b.failed.Add(1)
			b.logger.Error("EventBus: handler failed",
				zap.Uint64("subscription_id", s.id),
				zap.String("event_type", event.Type),
				zap.Error(err))
			continue
		}
		b.delivered.Add(1)
	}
}

func (b *Bus) deliver(s subscriber, event *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.HandlerFault(fmt.Errorf("panic: %v", r), s.id, event.Type)
		}
	}()

	if handlerErr := s.listener.HandleEvent(event); handlerErr != nil {
		return errors.HandlerFault(handlerErr, s.id, event.Type)
	}
	return nil
}

func (b *Bus) validate(event *Event) {
	if b.validator == nil {
		return
	}
	if b.validateNames.Load() {
		for _, issue := range b.validator.ValidateName(event.Type) {
			b.logger.Warn("EventBus: event name issue",
				zap.String("event_type", event.Type),
				zap.String("kind", string(issue.Kind)),
				zap.String("message", issue.Message))
		}
	}
	if b.validatePayloads.Load() {
		for _, issue := range b.validator.ValidatePayload(event.Type, event.Data) {
			b.logger.Warn("EventBus: event payload issue",
				zap.String("event_type", event.Type),
				zap.String("field", issue.Field),
				zap.String("kind", string(issue.Kind)),
				zap.String("message", issue.Message))
		}
	}
}

// HasSubscribers reports whether eventType has at least one handler
func (b *Bus) HasSubscribers(eventType string) bool {
	return b.SubscriberCount(eventType) > 0
}

// SubscriberCount returns the number of handlers for eventType
func (b *Bus) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.handlers[eventType])
}

// Clear removes all subscriptions
func (b *Bus) Clear() {
	b.mu.Lock()
	b.handlers = make(map[string][]subscriber)
	b.mu.Unlock()

	if b.debug.Load() {
		b.logger.Info("EventBus: cleared all listeners")
	}
}

// Stats returns a snapshot of subscription and delivery counts
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := Stats{
		EventTypeCount: len(b.handlers),
		PerTypeCounts:  make(map[string]int, len(b.handlers)),
		Emitted:        b.emitted.Load(),
		Delivered:      b.delivered.Load(),
		Failed:         b.failed.Load(),
	}
	for eventType, subs := range b.handlers {
		stats.PerTypeCounts[eventType] = len(subs)
		stats.TotalSubscriptions += len(subs)
	}
	return stats
}

// SetDebugMode toggles verbose logging; dispatch is unaffected
func (b *Bus) SetDebugMode(enabled bool) {
	b.debug.Store(enabled)
	b.logger.Info("EventBus: debug mode", zap.Bool("enabled", enabled))
}

// SetValidateEventNames toggles advisory name warnings at emit time
func (b *Bus) SetValidateEventNames(enabled bool) {
	b.validateNames.Store(enabled)
}

// SetValidateEventPayloads toggles advisory payload warnings at emit time
func (b *Bus) SetValidateEventPayloads(enabled bool) {
	b.validatePayloads.Store(enabled)
}

// Now returns the bus clock in milliseconds since creation
func (b *Bus) Now() float64 {
	return b.now()
}

func (b *Bus) now() float64 {
	return float64(time.Since(b.origin)) / float64(time.Millisecond)
}

func sameListener(a, b Listener) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Kind() == reflect.Func {
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	if !ta.Comparable() {
		return false
	}
	return a == b
}
