package events

import (
	"encoding/json"
	"strings"
)

// Category tags the payload shape an event carries
type Category string

const (
	CategoryGeneric      Category = "generic"
	CategoryStateChange  Category = "changed"
	CategoryCombat       Category = "combat"
	CategoryNotification Category = "notification"
	CategoryProgress     Category = "progress"
)

// Reserved envelope keys; payload entries with these names are dropped
const (
	KeyType      = "type"
	KeyTimestamp = "timestamp"
)

// Event is delivered to every handler for a single emission.
// Timestamp is milliseconds since the emitting bus was created.
type Event struct {
	Type      string
	Timestamp float64
	Category  Category
	Data      map[string]any
}

// NewEvent builds an event carrying a shallow copy of data
func NewEvent(eventType string, data map[string]any) *Event {
	return &Event{
		Type:     eventType,
		Category: CategoryGeneric,
		Data:     copyPayload(data),
	}
}

// Namespace returns the segment before the first colon
func (e *Event) Namespace() string {
	ns, _ := SplitName(e.Type)
	return ns
}

// Action returns the segment after the first colon
func (e *Event) Action() string {
	_, action := SplitName(e.Type)
	return action
}

// Get returns a payload value
func (e *Event) Get(key string) (any, bool) {
	v, ok := e.Data[key]
	return v, ok
}

// String returns a payload value as a string, or "" when absent or not a string
func (e *Event) String(key string) string {
	s, _ := e.Data[key].(string)
	return s
}

// Float returns a numeric payload value as float64
func (e *Event) Float(key string) (float64, bool) {
	return ToFloat(e.Data[key])
}

// Map returns a nested object payload value
func (e *Event) Map(key string) (map[string]any, bool) {
	m, ok := e.Data[key].(map[string]any)
	return m, ok
}

// MarshalJSON flattens the event into {type, timestamp, ...data}. Category is
// derived from the type and is not serialized.
func (e *Event) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(e.Data)+3)
	for k, v := range e.Data {
		flat[k] = v
	}
	flat[KeyType] = e.Type
	flat[KeyTimestamp] = e.Timestamp
	return json.Marshal(flat)
}

// SplitName splits "namespace:action" at the first colon.
// A name without a colon is all namespace.
func SplitName(name string) (namespace, action string) {
	namespace, action, _ = strings.Cut(name, ":")
	return namespace, action
}

// ToFloat converts the numeric kinds a payload may carry
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func copyPayload(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if k == KeyType || k == KeyTimestamp {
			continue
		}
		out[k] = v
	}
	return out
}
