package testutils

import (
	"github.com/KirkDiggler/fps-hud/internal/events"
	"github.com/KirkDiggler/fps-hud/internal/pool"
	"github.com/KirkDiggler/fps-hud/internal/repositories/reports"
	"github.com/KirkDiggler/fps-hud/internal/standard"
)

// ComponentFixtures returns a small audit manifest mixing legacy and canonical names
func ComponentFixtures() []standard.Component {
	return []standard.Component{
		{
			Name: "KillFeed",
			Events: []standard.Binding{
				{Name: "hit:landed", Handler: "feed.onHit"},
				{Name: events.EnemyKilled, Handler: "feed.onKill"},
			},
		},
		{
			Name: "AmmoCounter",
			Events: []standard.Binding{
				{Name: events.AmmoChanged, Handler: "ammo.onChange"},
				{Name: events.WeaponSwitched, Handler: "ammo.onWeapon"},
			},
		},
		{
			Name: "Notifications",
			Events: []standard.Binding{
				{Name: "notify", Handler: "toasts.show"},
				{Name: "level:up", Handler: "toasts.onLevel"},
				{Name: events.AchievementUnlocked, Handler: "toasts.onAchievement"},
			},
		},
	}
}

// PoolSnapshotFixture returns the n-th one-second sample of a stress run
func PoolSnapshotFixture(runID string, n int) *reports.PoolSnapshot {
	inUse := n % 4
	total := 8 + n
	return &reports.PoolSnapshot{
		RunID:  runID,
		Pool:   "kill_feed",
		Pooled: true,
		Stats: pool.Stats{
			Available: total - inUse,
			InUse:     inUse,
			Total:     total,
			Created:   total,
			Acquired:  n * 100,
			Released:  n*100 - inUse,
		},
		Emitted:   uint64(n * 100),
		ElapsedMS: int64(n) * 1000,
	}
}
