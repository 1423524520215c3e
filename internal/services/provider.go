package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/fps-hud/internal/bridge"
	"github.com/KirkDiggler/fps-hud/internal/config"
	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/events"
	"github.com/KirkDiggler/fps-hud/internal/hud"
	"github.com/KirkDiggler/fps-hud/internal/logging"
	"github.com/KirkDiggler/fps-hud/internal/pool"
	"github.com/KirkDiggler/fps-hud/internal/repositories/reports"
	"github.com/KirkDiggler/fps-hud/internal/standard"
	"github.com/KirkDiggler/fps-hud/internal/uuid"
)

// Provider holds the shared HUD runtime: one bus, one engine, one report store
type Provider struct {
	Config  *config.Config
	Logger  *zap.Logger
	Bus     *events.Bus
	Engine  *standard.Engine
	Reports reports.Repository
	IDs     uuid.Generator
}

// ProviderConfig holds configuration for creating the runtime
type ProviderConfig struct {
	Config *config.Config
	Logger *zap.Logger
	// Reports defaults to an in-memory repository
	Reports     reports.Repository
	IDGenerator uuid.Generator
}

// NewProvider wires the bus and the standardization engine together; the engine
// validates bus emissions and stamps events with the bus clock
func NewProvider(cfg *ProviderConfig) (*Provider, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, errors.InvalidArgument("provider config is required")
	}
	if err := cfg.Config.Validate(); err != nil {
		return nil, err
	}

	logger := logging.OrNop(cfg.Logger)

	mappings, err := cfg.Config.Mappings()
	if err != nil {
		return nil, err
	}

	// the engine stamps events with the bus clock and the bus consults the engine,
	// so the clock closure is bound before the bus exists
	var bus *events.Bus
	engine, err := standard.NewEngine(&standard.Config{
		Logger:          logger.Named("standard"),
		ExtraMappings:   mappings,
		ExtraNamespaces: cfg.Config.Standard.ExtraNamespaces,
		Clock:           func() float64 { return bus.Now() },
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create standardization engine")
	}

	bus = events.NewBus(&events.BusConfig{
		Logger:           logger.Named("bus"),
		Validator:        engine,
		Debug:            cfg.Config.Bus.Debug,
		ValidateNames:    cfg.Config.Bus.ValidateNames,
		ValidatePayloads: cfg.Config.Bus.ValidatePayloads,
	})

	repo := cfg.Reports
	if repo == nil {
		repo = reports.NewInMemory(nil)
	}

	ids := cfg.IDGenerator
	if ids == nil {
		ids = uuid.NewGoogleUUIDGenerator()
	}

	return &Provider{
		Config:  cfg.Config,
		Logger:  logger,
		Bus:     bus,
		Engine:  engine,
		Reports: repo,
		IDs:     ids,
	}, nil
}

func (p *Provider) poolOptions(unpooled bool) hud.PoolOptions {
	return hud.PoolOptions{
		InitialSize: p.Config.Pool.InitialSize,
		MaxSize:     p.Config.Pool.MaxSize,
		Policy:      pool.Policy(p.Config.Pool.Policy),
		Unpooled:    unpooled,
		IDGenerator: p.IDs,
	}
}

// NewKillFeed creates a kill feed on the shared bus
func (p *Provider) NewKillFeed(unpooled bool) (*hud.KillFeed, error) {
	return hud.NewKillFeed(&hud.KillFeedConfig{
		Bus:        p.Bus,
		Duration:   p.Config.Feed.KillFeedDuration,
		MaxVisible: p.Config.Feed.KillFeedMaxVisible,
		Pool:       p.poolOptions(unpooled),
		Logger:     p.Logger.Named("kill_feed"),
	})
}

// NewNotifications creates the toast stack on the shared bus
func (p *Provider) NewNotifications() (*hud.Notifications, error) {
	return hud.NewNotifications(&hud.NotificationsConfig{
		Bus:             p.Bus,
		DefaultDuration: p.Config.Feed.NotificationDuration,
		MaxVisible:      p.Config.Feed.NotificationMax,
		Pool:            p.poolOptions(false),
		Logger:          p.Logger.Named("notifications"),
	})
}

// NewBridge creates a simulation bridge publishing on the shared bus
func (p *Provider) NewBridge(player standard.Actor) (*bridge.Bridge, error) {
	return bridge.New(&bridge.Config{
		Emitter: p.Bus,
		Engine:  p.Engine,
		Player:  player,
		Logger:  p.Logger.Named("bridge"),
	})
}

// ConnectReports returns a Redis-backed repository when a URL is configured and
// reachable, and an in-memory one otherwise. The returned close func is never nil.
func ConnectReports(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (reports.Repository, func(), error) {
	logger = logging.OrNop(logger)
	noop := func() {}

	if cfg.URL == "" {
		logger.Info("No redis url configured, using in-memory reports")
		return reports.NewInMemory(nil), noop, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, noop, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse redis url")
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		logger.Warn("Failed to connect to redis, falling back to in-memory reports", zap.Error(err))
		return reports.NewInMemory(nil), noop, nil
	}

	repo, err := reports.NewRedis(&reports.RedisRepoConfig{
		Client:    client,
		KeyPrefix: cfg.KeyPrefix,
		TTL:       cfg.TTL,
	})
	if err != nil {
		_ = client.Close()
		return nil, noop, err
	}

	logger.Info("Using redis for reports", zap.String("addr", opts.Addr))
	return repo, func() { _ = client.Close() }, nil
}
