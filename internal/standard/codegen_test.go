package standard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/fps-hud/internal/standard"
)

func TestGenerateMigrationCode(t *testing.T) {
	testCases := []struct {
		name      string
		component string
		bindings  []standard.Binding
		expected  string
	}{
		{
			name:      "renames carry the original name",
			component: "KillFeed",
			bindings: []standard.Binding{
				{Name: "hit:landed", Handler: "feed.onHit"},
				{Name: "enemy:killed", Handler: "feed.onKill"},
			},
			expected: "// KillFeed event subscriptions\n" +
				"bus.Subscribe(\"hit:registered\", feed.onHit) // was \"hit:landed\"\n" +
				"bus.Subscribe(\"enemy:killed\", feed.onKill)\n",
		},
		{
			name:      "nothing to rename",
			component: "AmmoCounter",
			bindings: []standard.Binding{
				{Name: "ammo:changed", Handler: "onAmmo"},
				{Name: "weapon:switched", Handler: "onWeapon"},
			},
			expected: "// AmmoCounter event subscriptions\n" +
				"bus.Subscribe(\"ammo:changed\", onAmmo)\n" +
				"bus.Subscribe(\"weapon:switched\", onWeapon)\n" +
				"// No changes needed: all events already use canonical names\n",
		},
		{
			name:      "unmapped names are already canonical",
			component: "Radar",
			bindings: []standard.Binding{
				{Name: "radar:ping", Handler: "onPing"},
			},
			expected: "// Radar event subscriptions\n" +
				"bus.Subscribe(\"radar:ping\", onPing)\n" +
				"// No changes needed: all events already use canonical names\n",
		},
		{
			name:      "missing handler expression",
			component: "Toasts",
			bindings: []standard.Binding{
				{Name: "notify"},
			},
			expected: "// Toasts event subscriptions\n" +
				"bus.Subscribe(\"notification:show\", handler) // was \"notify\"\n",
		},
		{
			name:      "empty component",
			component: "Empty",
			expected: "// Empty event subscriptions\n" +
				"// No changes needed: all events already use canonical names\n",
		},
	}

	engine := newEngine(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, engine.GenerateMigrationCode(tc.component, tc.bindings))
		})
	}
}
