package events

//go:generate mockgen -destination=mock/mock_interfaces.go -package=mockevents -source=interfaces.go

// Listener handles events delivered by the bus
type Listener interface {
	HandleEvent(event *Event) error
}

// HandlerFunc adapts a function to Listener
type HandlerFunc func(event *Event) error

// HandleEvent calls f(event)
func (f HandlerFunc) HandleEvent(event *Event) error {
	return f(event)
}

// Validator reports naming and payload problems; findings are advisory only
type Validator interface {
	ValidateName(eventType string) []Issue
	ValidatePayload(eventType string, data map[string]any) []Issue
}

// IssueKind classifies a validation finding
type IssueKind string

const (
	IssueSegmentCount     IssueKind = "segment_count"
	IssueEmptyNamespace   IssueKind = "empty_namespace"
	IssueEmptyAction      IssueKind = "empty_action"
	IssueUnknownNamespace IssueKind = "unknown_namespace"
	IssueLegacyName       IssueKind = "legacy_name"
	IssueMissingField     IssueKind = "missing_field"
	IssueWrongKind        IssueKind = "wrong_kind"
)

// Issue is a single validation finding
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}
