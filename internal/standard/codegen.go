package standard

import (
	"strconv"
	"strings"
)

const noChangesComment = "// No changes needed: all events already use canonical names"

// GenerateMigrationCode renders subscription calls using canonical names. Renamed
// entries carry a trailing comment with the original name.
func (e *Engine) GenerateMigrationCode(componentName string, bindings []Binding) string {
	var b strings.Builder
	b.WriteString("// ")
	b.WriteString(componentName)
	b.WriteString(" event subscriptions\n")

	renamed := false
	for _, binding := range bindings {
		canonical := e.lookup(binding.Name)
		handler := binding.Handler
		if handler == "" {
			handler = "handler"
		}

		b.WriteString("bus.Subscribe(")
		b.WriteString(strconv.Quote(canonical))
		b.WriteString(", ")
		b.WriteString(handler)
		b.WriteString(")")
		if canonical != binding.Name {
			renamed = true
			b.WriteString(" // was ")
			b.WriteString(strconv.Quote(binding.Name))
		}
		b.WriteString("\n")
	}

	if !renamed {
		b.WriteString(noChangesComment)
		b.WriteString("\n")
	}

	return b.String()
}
