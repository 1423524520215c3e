package standard

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/events"
)

// Config configures an Engine
type Config struct {
	Logger *zap.Logger
	// ExtraMappings are merged over the built-in legacy -> canonical table
	ExtraMappings   map[string]string
	ExtraNamespaces []string
	// Clock supplies event timestamps in milliseconds; wire it to Bus.Now so
	// standardized and raw events share a time base
	Clock func() float64
}

// Engine canonicalizes event names and shapes payloads into per-category templates.
// It never blocks or rewrites live emissions; producers and tooling consult it.
// Engine is read-only after construction and safe for concurrent use.
type Engine struct {
	logger     *zap.Logger
	nameMap    map[string]string
	namespaces map[string]bool
	templates  map[events.Category]Template
	clock      func() float64
}

var _ events.Validator = (*Engine)(nil)

// NewEngine builds an engine from the built-in tables plus cfg extensions.
// Mapping chains are resolved to their final canonical name; cycles are rejected.
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	e := &Engine{
		logger:     cfg.Logger,
		namespaces: make(map[string]bool, len(defaultNamespaces)+len(cfg.ExtraNamespaces)),
		templates:  defaultTemplates(),
		clock:      cfg.Clock,
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.clock == nil {
		origin := time.Now()
		e.clock = func() float64 {
			return float64(time.Since(origin)) / float64(time.Millisecond)
		}
	}

	for _, ns := range defaultNamespaces {
		e.namespaces[ns] = true
	}
	for _, ns := range cfg.ExtraNamespaces {
		e.namespaces[strings.TrimSpace(ns)] = true
	}

	raw := make(map[string]string, len(defaultEventNameMap)+len(cfg.ExtraMappings))
	for from, to := range defaultEventNameMap {
		raw[from] = to
	}
	for from, to := range cfg.ExtraMappings {
		raw[from] = to
	}

	resolved, err := resolveMappings(raw)
	if err != nil {
		return nil, err
	}
	e.nameMap = resolved

	return e, nil
}

// resolveMappings follows legacy chains to a fixed point and adds identity entries
// for every canonical target, which keeps canonicalization idempotent.
func resolveMappings(raw map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(raw)*2)
	for from := range raw {
		seen := map[string]bool{from: true}
		current := from
		for {
			next, ok := raw[current]
			if !ok || next == current {
				break
			}
			if seen[next] {
				return nil, errors.InvalidArgumentf("event name mapping cycle through %q", next)
			}
			seen[next] = true
			current = next
		}
		out[from] = current
	}
	for _, canonical := range out {
		out[canonical] = canonical
	}
	return out, nil
}

// StandardEventName returns the canonical form of name. Unknown names are returned
// unchanged; format and namespace problems are logged as warnings, never rejected.
func (e *Engine) StandardEventName(name string) string {
	if canonical, ok := e.nameMap[name]; ok {
		return canonical
	}

	for _, issue := range e.nameIssues(name) {
		e.logger.Warn("non-standard event name",
			zap.String("event_type", name),
			zap.String("kind", string(issue.Kind)),
			zap.String("message", issue.Message))
	}

	return name
}

func (e *Engine) nameIssues(name string) []events.Issue {
	parts := strings.Split(name, ":")
	if len(parts) != 2 {
		return []events.Issue{{
			Kind:    events.IssueSegmentCount,
			Message: "event name must have exactly two segments, namespace:action",
		}}
	}

	var issues []events.Issue
	namespace, action := parts[0], parts[1]
	if namespace == "" {
		issues = append(issues, events.Issue{
			Kind:    events.IssueEmptyNamespace,
			Message: "event namespace is empty",
		})
	}
	if action == "" {
		issues = append(issues, events.Issue{
			Kind:    events.IssueEmptyAction,
			Message: "event action is empty",
		})
	}
	if namespace != "" && !e.namespaces[namespace] {
		issues = append(issues, events.Issue{
			Kind:    events.IssueUnknownNamespace,
			Field:   namespace,
			Message: "namespace " + namespace + " is not a standard namespace",
		})
	}
	return issues
}

// Classify assigns an event type to a payload category. Rules are ordered and the
// first match wins.
func (e *Engine) Classify(eventType string) events.Category {
	namespace, action := events.SplitName(eventType)

	switch {
	case strings.HasSuffix(action, "changed"):
		return events.CategoryStateChange
	case combatActions[action] || combatNamespaces[namespace]:
		return events.CategoryCombat
	case namespace == "notification":
		return events.CategoryNotification
	case namespace == "xp" || progressActions[action]:
		return events.CategoryProgress
	default:
		return events.CategoryGeneric
	}
}

// EventPayloadTemplate returns a copy of the template for eventType, or an empty
// template when no category matches.
func (e *Engine) EventPayloadTemplate(eventType string) Template {
	if tmpl, ok := e.templates[e.Classify(eventType)]; ok {
		return tmpl.Clone()
	}
	return Template{}
}

// CreateStandardEvent shapes data through the event's template. Keys the template
// does not know are dropped; template placeholders are never copied into the event.
// Without a template the payload passes through unchanged.
func (e *Engine) CreateStandardEvent(eventType string, data map[string]any) *events.Event {
	return e.build(eventType, e.Classify(eventType), data)
}

func (e *Engine) build(eventType string, category events.Category, data map[string]any) *events.Event {
	event := events.NewEvent(eventType, nil)
	event.Timestamp = e.clock()
	event.Category = category

	tmpl, ok := e.templates[category]
	if !ok {
		event.Data = events.NewEvent(eventType, data).Data
		return event
	}

	event.Data = applyTemplate(tmpl, data)
	return event
}

func applyTemplate(tmpl Template, data map[string]any) map[string]any {
	out := make(map[string]any, len(tmpl))
	for key, placeholder := range tmpl {
		value, present := data[key]
		if !present {
			continue
		}

		nested, isObject := placeholder.(Template)
		supplied, isMap := value.(map[string]any)
		if !isObject || !isMap {
			out[key] = value
			continue
		}

		merged := make(map[string]any, len(nested)+len(supplied))
		for k, def := range nested {
			if def == nil {
				continue
			}
			if _, sub := def.(Template); sub {
				continue
			}
			merged[k] = def
		}
		for k, v := range supplied {
			merged[k] = v
		}
		out[key] = merged
	}
	return out
}

// EventNameMap returns a copy of the resolved legacy -> canonical table
func (e *Engine) EventNameMap() map[string]string {
	out := make(map[string]string, len(e.nameMap))
	for k, v := range e.nameMap {
		out[k] = v
	}
	return out
}

// StandardNamespaces returns the sorted namespace whitelist
func (e *Engine) StandardNamespaces() []string {
	out := make([]string, 0, len(e.namespaces))
	for ns := range e.namespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// PayloadTemplates returns copies of every category template
func (e *Engine) PayloadTemplates() map[events.Category]Template {
	out := make(map[events.Category]Template, len(e.templates))
	for category, tmpl := range e.templates {
		out[category] = tmpl.Clone()
	}
	return out
}
