package standard

import "github.com/KirkDiggler/fps-hud/internal/events"

// Template describes a payload shape. A nil leaf is an optional field of any type;
// a nested Template is a required object, itself templated.
type Template map[string]any

// Clone deep-copies the template
func (t Template) Clone() Template {
	if t == nil {
		return nil
	}
	out := make(Template, len(t))
	for k, v := range t {
		if nested, ok := v.(Template); ok {
			out[k] = nested.Clone()
			continue
		}
		out[k] = v
	}
	return out
}

// defaultEventNameMap maps legacy names to canonical ones. Canonical targets are
// added as identity entries when the engine is built.
var defaultEventNameMap = map[string]string{
	"hit:landed":          events.HitRegistered,
	"hit:confirmed":       events.HitRegistered,
	"enemy:kill":          events.EnemyKilled,
	"enemy:death":         events.EnemyKilled,
	"enemy:died":          events.EnemyKilled,
	"enemy:hurt":          events.EnemyDamaged,
	"enemy:damage":        events.EnemyDamaged,
	"player:damage":       events.PlayerDamaged,
	"player:hurt":         events.PlayerDamaged,
	"player:death":        events.PlayerKilled,
	"player:spawn":        events.PlayerSpawned,
	"health:update":       events.HealthChanged,
	"health:change":       events.HealthChanged,
	"healthChanged":       events.HealthChanged,
	"armor:update":        events.ArmorChanged,
	"shield:update":       events.ShieldChanged,
	"ammo:update":         events.AmmoChanged,
	"ammo:change":         events.AmmoChanged,
	"ammoChanged":         events.AmmoChanged,
	"weapon:switch":       events.WeaponSwitched,
	"weapon:change":       events.WeaponSwitched,
	"weapon:fire":         events.WeaponFired,
	"weapon:reload":       events.WeaponReloaded,
	"notification:new":    events.NotificationShow,
	"notification:create": events.NotificationShow,
	"notify":              events.NotificationShow,
	"xp:gain":             events.XPGained,
	"xp:earned":           events.XPGained,
	"level:up":            events.LevelChanged,
	"achievement:unlock":  events.AchievementUnlocked,
	"killstreak:update":   events.KillstreakChanged,
	"game:start":          events.GameStarted,
	"game:pause":          events.GamePaused,
	"game:end":            events.GameOver,
}

var defaultNamespaces = []string{
	"player",
	"health",
	"armor",
	"shield",
	"ammo",
	"weapon",
	"enemy",
	"hit",
	"combat",
	"notification",
	"xp",
	"level",
	"achievement",
	"killstreak",
	"objective",
	"game",
	"ui",
	"hud",
	"minimap",
	"debug",
}

func defaultTemplates() map[events.Category]Template {
	actor := Template{
		"id":   nil,
		"name": nil,
		"type": nil,
		"team": nil,
	}

	return map[events.Category]Template{
		events.CategoryStateChange: {
			"value":    nil,
			"previous": nil,
			"delta":    nil,
			"max":      nil,
			"source":   nil,
		},
		events.CategoryCombat: {
			"source":   actor.Clone(),
			"target":   actor.Clone(),
			"damage":   nil,
			"weapon":   nil,
			"headshot": nil,
			"critical": nil,
			"distance": nil,
			"position": nil,
		},
		events.CategoryNotification: {
			"message":  nil,
			"title":    nil,
			"icon":     nil,
			"kind":     nil,
			"priority": nil,
			"duration": nil,
		},
		events.CategoryProgress: {
			"current":    nil,
			"target":     nil,
			"delta":      nil,
			"percentage": nil,
			"level":      nil,
			"source":     nil,
		},
	}
}

var combatActions = map[string]bool{
	"damaged":    true,
	"killed":     true,
	"registered": true,
	"hit":        true,
}

var combatNamespaces = map[string]bool{
	"hit":    true,
	"combat": true,
}

var progressActions = map[string]bool{
	"progress": true,
	"gained":   true,
}
