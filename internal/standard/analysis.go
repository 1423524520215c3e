package standard

import (
	"math"
	"sort"

	"github.com/KirkDiggler/fps-hud/internal/events"
)

// Binding is one declared subscription of a consumer component
type Binding struct {
	Name    string `json:"name"`
	Handler string `json:"handler,omitempty"`
}

// Component is a consumer's declared event map, as read from an audit manifest
type Component struct {
	Name   string    `json:"name"`
	Events []Binding `json:"events"`
}

// Analysis is the result of inspecting a single event name and payload
type Analysis struct {
	Name          string          `json:"name"`
	StandardName  string          `json:"standardName"`
	IsStandard    bool            `json:"isStandard"`
	Category      events.Category `json:"category"`
	NameIssues    []events.Issue  `json:"nameIssues,omitempty"`
	Payload       map[string]any  `json:"payload,omitempty"`
	PayloadIssues []events.Issue  `json:"payloadIssues,omitempty"`
}

// EventReport is the per-binding part of a ComponentReport
type EventReport struct {
	Name         string          `json:"name"`
	Handler      string          `json:"handler,omitempty"`
	StandardName string          `json:"standardName"`
	IsStandard   bool            `json:"isStandard"`
	Category     events.Category `json:"category"`
	Issues       []events.Issue  `json:"issues,omitempty"`
}

// Suggestion proposes a rename for a non-standard binding
type Suggestion struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// ComponentReport summarizes how far a component is from the naming convention
type ComponentReport struct {
	Component     string        `json:"component"`
	Total         int           `json:"total"`
	StandardCount int           `json:"standardCount"`
	Compliance    int           `json:"standardCompliance"`
	Events        []EventReport `json:"events"`
	Suggestions   []Suggestion  `json:"suggestions,omitempty"`
}

// AnalyzeEvent inspects a name and an optional payload. A nil payload skips the
// payload half of the analysis.
func (e *Engine) AnalyzeEvent(name string, payload map[string]any) Analysis {
	canonical := e.lookup(name)
	issues := e.nameIssues(name)

	a := Analysis{
		Name:         name,
		StandardName: canonical,
		IsStandard:   canonical == name && len(issues) == 0,
		Category:     e.Classify(canonical),
		NameIssues:   issues,
	}

	if payload != nil {
		a.Payload = e.build(canonical, a.Category, payload).Data
		a.PayloadIssues = e.ValidatePayload(canonical, payload)
	}

	return a
}

// lookup canonicalizes without logging
func (e *Engine) lookup(name string) string {
	if canonical, ok := e.nameMap[name]; ok {
		return canonical
	}
	return name
}

// ValidateName reports format problems plus a legacy_name finding when the name
// has a canonical replacement
func (e *Engine) ValidateName(eventType string) []events.Issue {
	issues := e.nameIssues(eventType)
	if canonical := e.lookup(eventType); canonical != eventType {
		issues = append(issues, events.Issue{
			Kind:    events.IssueLegacyName,
			Field:   canonical,
			Message: "use " + canonical + " instead of " + eventType,
		})
	}
	return issues
}

// ValidatePayload checks that every required object field of the event's template
// is present and is an object
func (e *Engine) ValidatePayload(eventType string, data map[string]any) []events.Issue {
	tmpl, ok := e.templates[e.Classify(e.lookup(eventType))]
	if !ok {
		return nil
	}
	return diffTemplate(tmpl, data, "")
}

func diffTemplate(tmpl Template, data map[string]any, prefix string) []events.Issue {
	keys := make([]string, 0, len(tmpl))
	for key := range tmpl {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var issues []events.Issue
	for _, key := range keys {
		nested, required := tmpl[key].(Template)
		if !required {
			continue
		}

		field := key
		if prefix != "" {
			field = prefix + "." + key
		}

		value, present := data[key]
		if !present {
			issues = append(issues, events.Issue{
				Kind:    events.IssueMissingField,
				Field:   field,
				Message: "required object " + field + " is missing",
			})
			continue
		}

		obj, isMap := value.(map[string]any)
		if !isMap {
			issues = append(issues, events.Issue{
				Kind:    events.IssueWrongKind,
				Field:   field,
				Message: field + " must be an object",
			})
			continue
		}

		issues = append(issues, diffTemplate(nested, obj, field)...)
	}
	return issues
}

// AnalyzeComponent classifies each binding and computes the share already using
// canonical names. An empty component is fully compliant.
func (e *Engine) AnalyzeComponent(component Component) ComponentReport {
	report := ComponentReport{
		Component: component.Name,
		Total:     len(component.Events),
		Events:    make([]EventReport, 0, len(component.Events)),
	}

	for _, binding := range component.Events {
		a := e.AnalyzeEvent(binding.Name, nil)
		report.Events = append(report.Events, EventReport{
			Name:         binding.Name,
			Handler:      binding.Handler,
			StandardName: a.StandardName,
			IsStandard:   a.IsStandard,
			Category:     a.Category,
			Issues:       a.NameIssues,
		})

		if a.IsStandard {
			report.StandardCount++
			continue
		}
		report.Suggestions = append(report.Suggestions, Suggestion{
			From:   binding.Name,
			To:     a.StandardName,
			Reason: suggestionReason(a),
		})
	}

	report.Compliance = compliance(report.StandardCount, report.Total)
	return report
}

func suggestionReason(a Analysis) string {
	if a.StandardName != a.Name {
		return "legacy name"
	}
	if len(a.NameIssues) > 0 {
		return string(a.NameIssues[0].Kind)
	}
	return "non-standard name"
}

func compliance(standard, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(standard) / float64(total) * 100))
}
