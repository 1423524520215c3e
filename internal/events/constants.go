package events

// Canonical event types, grouped by namespace
const (
	// Player
	PlayerSpawned = "player:spawned"
	PlayerDamaged = "player:damaged"
	PlayerKilled  = "player:killed"

	// Health & armor
	HealthChanged = "health:changed"
	ArmorChanged  = "armor:changed"
	ShieldChanged = "shield:changed"

	// Weapons
	AmmoChanged     = "ammo:changed"
	WeaponSwitched  = "weapon:switched"
	WeaponFired     = "weapon:fired"
	WeaponReloaded  = "weapon:reloaded"
	WeaponReloading = "weapon:reloading"

	// Combat
	EnemyDamaged  = "enemy:damaged"
	EnemyKilled   = "enemy:killed"
	EnemySpawned  = "enemy:spawned"
	HitRegistered = "hit:registered"
	CombatHit     = "combat:hit"

	// Notifications
	NotificationShow    = "notification:show"
	NotificationDismiss = "notification:dismiss"

	// Progress
	XPGained            = "xp:gained"
	LevelChanged        = "level:changed"
	AchievementUnlocked = "achievement:unlocked"
	KillstreakChanged   = "killstreak:changed"
	ObjectiveProgress   = "objective:progress"

	// Game flow
	GameStarted = "game:started"
	GamePaused  = "game:paused"
	GameOver    = "game:over"
)
