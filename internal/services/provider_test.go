package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KirkDiggler/fps-hud/internal/bridge"
	"github.com/KirkDiggler/fps-hud/internal/config"
	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/events"
	"github.com/KirkDiggler/fps-hud/internal/repositories/reports"
	"github.com/KirkDiggler/fps-hud/internal/services"
	"github.com/KirkDiggler/fps-hud/internal/standard"
	"github.com/KirkDiggler/fps-hud/internal/uuid"
)

func newProvider(t *testing.T, mutate func(cfg *config.Config)) (*services.Provider, *observer.ObservedLogs) {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	provider, err := services.NewProvider(&services.ProviderConfig{
		Config:      cfg,
		Logger:      zap.New(core),
		IDGenerator: uuid.NewSequentialGenerator("hud"),
	})
	require.NoError(t, err)

	return provider, logs
}

func TestNewProvider_RequiresConfig(t *testing.T) {
	_, err := services.NewProvider(nil)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = services.NewProvider(&services.ProviderConfig{})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestNewProvider_DefaultsToInMemoryReports(t *testing.T) {
	provider, _ := newProvider(t, nil)

	_, ok := provider.Reports.(*reports.InMemoryRepository)
	assert.True(t, ok)
}

func TestNewProvider_ExtraMappingsReachEngine(t *testing.T) {
	provider, _ := newProvider(t, func(cfg *config.Config) {
		cfg.Standard.ExtraMappings = []string{"frag=enemy:killed"}
	})

	assert.Equal(t, events.EnemyKilled, provider.Engine.StandardEventName("frag"))
}

func TestProvider_BridgeKillReachesKillFeed(t *testing.T) {
	provider, _ := newProvider(t, nil)

	feed, err := provider.NewKillFeed(false)
	require.NoError(t, err)
	defer feed.Close()

	b, err := provider.NewBridge(standard.Actor{ID: "p1", Name: "Player"})
	require.NoError(t, err)

	snap := bridge.Snapshot{Health: 100, MaxHealth: 100, Ammo: 30, MaxAmmo: 30, Weapon: "rifle"}
	assert.Equal(t, 0, b.Tick(snap))

	snap.Ammo = 29
	snap.Kills = []bridge.Kill{{EnemyID: "e1", EnemyName: "Grunt", Headshot: true}}
	assert.Equal(t, 2, b.Tick(snap))

	visible := feed.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Player ▸ Grunt [rifle]", visible[0].Text)
	assert.True(t, visible[0].Headshot)
	assert.Equal(t, 1, feed.Stats().InUse)
}

func TestProvider_UnpooledKillFeed(t *testing.T) {
	provider, _ := newProvider(t, nil)

	feed, err := provider.NewKillFeed(true)
	require.NoError(t, err)
	defer feed.Close()

	provider.Bus.EmitEvent(provider.Engine.CreateCombatEvent(events.EnemyKilled, standard.Combat{
		Source: &standard.Actor{Name: "A"},
		Target: &standard.Actor{Name: "B"},
	}))

	require.Len(t, feed.Visible(), 1)
	assert.Equal(t, "A ▸ B", feed.Visible()[0].Text)
}

func TestProvider_NotificationsOnSharedBus(t *testing.T) {
	provider, _ := newProvider(t, nil)

	toasts, err := provider.NewNotifications()
	require.NoError(t, err)
	defer toasts.Close()

	provider.Bus.EmitEvent(provider.Engine.CreateNotificationEvent(events.NotificationShow, standard.Notification{
		Message: "Level up",
		Kind:    "success",
	}))

	visible := toasts.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Level up", visible[0].Message)
}

func TestProvider_EngineValidatesBusEmissions(t *testing.T) {
	provider, logs := newProvider(t, func(cfg *config.Config) {
		cfg.Bus.ValidateNames = true
	})

	provider.Bus.Emit("hit:landed", map[string]any{"damage": 10})

	assert.NotZero(t, logs.FilterMessage("EventBus: event name issue").Len())
}

func TestConnectReports_EmptyURLUsesInMemory(t *testing.T) {
	repo, closeFn, err := services.ConnectReports(context.Background(), config.RedisConfig{}, nil)
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	defer closeFn()

	_, ok := repo.(*reports.InMemoryRepository)
	assert.True(t, ok)
}

func TestConnectReports_BadURL(t *testing.T) {
	_, closeFn, err := services.ConnectReports(context.Background(), config.RedisConfig{URL: "not a url"}, nil)
	require.NotNil(t, closeFn)
	assert.True(t, errors.IsInvalidArgument(err))
}
