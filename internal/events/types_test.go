package events_test

import (
	"encoding/json"
	"testing"

	"github.com/KirkDiggler/fps-hud/internal/events"
	"github.com/stretchr/testify/assert"
)

func TestSplitName(t *testing.T) {
	testCases := []struct {
		name      string
		namespace string
		action    string
	}{
		{name: "health:changed", namespace: "health", action: "changed"},
		{name: "healthChanged", namespace: "healthChanged", action: ""},
		{name: ":changed", namespace: "", action: "changed"},
		{name: "a:b:c", namespace: "a", action: "b:c"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ns, action := events.SplitName(tc.name)
			assert.Equal(t, tc.namespace, ns)
			assert.Equal(t, tc.action, action)
		})
	}
}

func TestEventAccessors(t *testing.T) {
	event := events.NewEvent(events.EnemyKilled, map[string]any{
		"weapon": "shotgun",
		"damage": 42,
		"target": map[string]any{"name": "Grunt"},
	})

	assert.Equal(t, "enemy", event.Namespace())
	assert.Equal(t, "killed", event.Action())
	assert.Equal(t, "shotgun", event.String("weapon"))
	assert.Equal(t, "", event.String("damage"))

	damage, ok := event.Float("damage")
	assert.True(t, ok)
	assert.Equal(t, 42.0, damage)

	_, ok = event.Float("weapon")
	assert.False(t, ok)

	target, ok := event.Map("target")
	assert.True(t, ok)
	assert.Equal(t, "Grunt", target["name"])

	_, ok = event.Get("missing")
	assert.False(t, ok)
}

func TestToFloat(t *testing.T) {
	for _, v := range []any{int(3), int32(3), int64(3), uint(3), uint32(3), uint64(3), float32(3), 3.0, json.Number("3")} {
		f, ok := events.ToFloat(v)
		assert.True(t, ok)
		assert.Equal(t, 3.0, f)
	}

	_, ok := events.ToFloat("3")
	assert.False(t, ok)
}
