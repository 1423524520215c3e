package standard

import (
	"time"

	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/events"
)

// StateChange is the payload of "changed" events such as health:changed
type StateChange struct {
	Value    float64
	Previous float64
	Delta    float64
	// Max of zero is omitted
	Max    float64
	Source string
}

// Actor identifies one side of a combat event
type Actor struct {
	ID   string
	Name string
	Type string
	Team string
}

// Vec3 is a world position
type Vec3 struct {
	X, Y, Z float64
}

// Combat is the payload of damage, kill and hit events
type Combat struct {
	Source   *Actor
	Target   *Actor
	Damage   float64
	Weapon   string
	Headshot bool
	Critical bool
	Distance float64
	Position *Vec3
}

// Notification is the payload of notification:show
type Notification struct {
	Message  string
	Title    string
	Icon     string
	Kind     string
	Priority int
	Duration time.Duration
}

// Progress is the payload of xp and objective events
type Progress struct {
	Current float64
	Target  float64
	Delta   float64
	// Percentage is derived from Current and Target when left at zero
	Percentage float64
	Level      int
	Source     string
}

func (p StateChange) toMap() map[string]any {
	m := map[string]any{
		"value":    p.Value,
		"previous": p.Previous,
		"delta":    p.Delta,
	}
	if p.Max != 0 {
		m["max"] = p.Max
	}
	if p.Source != "" {
		m["source"] = p.Source
	}
	return m
}

func (a *Actor) toMap() map[string]any {
	m := map[string]any{}
	if a.ID != "" {
		m["id"] = a.ID
	}
	if a.Name != "" {
		m["name"] = a.Name
	}
	if a.Type != "" {
		m["type"] = a.Type
	}
	if a.Team != "" {
		m["team"] = a.Team
	}
	return m
}

func (p Combat) toMap() map[string]any {
	m := map[string]any{}
	if p.Source != nil {
		m["source"] = p.Source.toMap()
	}
	if p.Target != nil {
		m["target"] = p.Target.toMap()
	}
	if p.Damage != 0 {
		m["damage"] = p.Damage
	}
	if p.Weapon != "" {
		m["weapon"] = p.Weapon
	}
	if p.Headshot {
		m["headshot"] = true
	}
	if p.Critical {
		m["critical"] = true
	}
	if p.Distance != 0 {
		m["distance"] = p.Distance
	}
	if p.Position != nil {
		m["position"] = map[string]any{"x": p.Position.X, "y": p.Position.Y, "z": p.Position.Z}
	}
	return m
}

func (p Notification) toMap() map[string]any {
	m := map[string]any{"message": p.Message}
	if p.Title != "" {
		m["title"] = p.Title
	}
	if p.Icon != "" {
		m["icon"] = p.Icon
	}
	if p.Kind != "" {
		m["kind"] = p.Kind
	}
	if p.Priority != 0 {
		m["priority"] = p.Priority
	}
	if p.Duration > 0 {
		m["duration"] = float64(p.Duration.Milliseconds())
	}
	return m
}

func (p Progress) toMap() map[string]any {
	m := map[string]any{
		"current": p.Current,
		"target":  p.Target,
	}
	if p.Delta != 0 {
		m["delta"] = p.Delta
	}
	percentage := p.Percentage
	if percentage == 0 && p.Target > 0 {
		percentage = p.Current / p.Target * 100
	}
	if percentage != 0 {
		m["percentage"] = percentage
	}
	if p.Level != 0 {
		m["level"] = p.Level
	}
	if p.Source != "" {
		m["source"] = p.Source
	}
	return m
}

// CreateStateChangeEvent builds a "changed" category event for eventType
func (e *Engine) CreateStateChangeEvent(eventType string, p StateChange) *events.Event {
	return e.build(eventType, events.CategoryStateChange, p.toMap())
}

// CreateCombatEvent builds a combat category event for eventType
func (e *Engine) CreateCombatEvent(eventType string, p Combat) *events.Event {
	return e.build(eventType, events.CategoryCombat, p.toMap())
}

// CreateNotificationEvent builds a notification category event for eventType
func (e *Engine) CreateNotificationEvent(eventType string, p Notification) *events.Event {
	return e.build(eventType, events.CategoryNotification, p.toMap())
}

// CreateProgressEvent builds a progress category event for eventType
func (e *Engine) CreateProgressEvent(eventType string, p Progress) *events.Event {
	return e.build(eventType, events.CategoryProgress, p.toMap())
}

// DecodeStateChange reads a StateChange back out of an event
func DecodeStateChange(event *events.Event) (StateChange, error) {
	if event == nil {
		return StateChange{}, errors.InvalidArgument("event is required")
	}
	value, ok := event.Float("value")
	if !ok {
		return StateChange{}, errors.InvalidArgumentf("%s payload has no numeric value", event.Type)
	}

	p := StateChange{Value: value, Source: event.String("source")}
	p.Previous, _ = event.Float("previous")
	p.Delta, _ = event.Float("delta")
	p.Max, _ = event.Float("max")
	return p, nil
}

// DecodeCombat reads a Combat back out of an event
func DecodeCombat(event *events.Event) (Combat, error) {
	if event == nil {
		return Combat{}, errors.InvalidArgument("event is required")
	}

	var p Combat
	if m, ok := event.Map("source"); ok {
		p.Source = decodeActor(m)
	}
	if m, ok := event.Map("target"); ok {
		p.Target = decodeActor(m)
	}
	if p.Source == nil && p.Target == nil {
		return Combat{}, errors.InvalidArgumentf("%s payload has no source or target", event.Type)
	}

	p.Damage, _ = event.Float("damage")
	p.Weapon = event.String("weapon")
	p.Headshot, _ = event.Data["headshot"].(bool)
	p.Critical, _ = event.Data["critical"].(bool)
	p.Distance, _ = event.Float("distance")
	if m, ok := event.Map("position"); ok {
		x, _ := events.ToFloat(m["x"])
		y, _ := events.ToFloat(m["y"])
		z, _ := events.ToFloat(m["z"])
		p.Position = &Vec3{X: x, Y: y, Z: z}
	}
	return p, nil
}

func decodeActor(m map[string]any) *Actor {
	str := func(key string) string {
		s, _ := m[key].(string)
		return s
	}
	return &Actor{ID: str("id"), Name: str("name"), Type: str("type"), Team: str("team")}
}

// DecodeNotification reads a Notification back out of an event
func DecodeNotification(event *events.Event) (Notification, error) {
	if event == nil {
		return Notification{}, errors.InvalidArgument("event is required")
	}
	message, ok := event.Data["message"].(string)
	if !ok {
		return Notification{}, errors.InvalidArgumentf("%s payload has no message", event.Type)
	}

	p := Notification{
		Message: message,
		Title:   event.String("title"),
		Icon:    event.String("icon"),
		Kind:    event.String("kind"),
	}
	if priority, ok := event.Float("priority"); ok {
		p.Priority = int(priority)
	}
	if ms, ok := event.Float("duration"); ok {
		p.Duration = time.Duration(ms * float64(time.Millisecond))
	}
	return p, nil
}

// DecodeProgress reads a Progress back out of an event
func DecodeProgress(event *events.Event) (Progress, error) {
	if event == nil {
		return Progress{}, errors.InvalidArgument("event is required")
	}
	current, ok := event.Float("current")
	if !ok {
		return Progress{}, errors.InvalidArgumentf("%s payload has no numeric current", event.Type)
	}

	p := Progress{Current: current, Source: event.String("source")}
	p.Target, _ = event.Float("target")
	p.Delta, _ = event.Float("delta")
	p.Percentage, _ = event.Float("percentage")
	if level, ok := event.Float("level"); ok {
		p.Level = int(level)
	}
	return p, nil
}
