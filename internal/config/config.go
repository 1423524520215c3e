package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/KirkDiggler/fps-hud/internal/errors"
)

// EnvPrefix is prepended to every environment override, e.g. HUD_BUS_DEBUG
const EnvPrefix = "HUD"

// Config holds all configuration for the HUD core and its tools
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Bus      BusConfig      `mapstructure:"bus"`
	Pool     PoolConfig     `mapstructure:"pool"`
	Standard StandardConfig `mapstructure:"standard"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// LogConfig selects the zap logger flavour
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// BusConfig holds event bus toggles
type BusConfig struct {
	Debug            bool `mapstructure:"debug"`
	ValidateNames    bool `mapstructure:"validate_names"`
	ValidatePayloads bool `mapstructure:"validate_payloads"`
}

// PoolConfig holds default sizing for display pools
type PoolConfig struct {
	InitialSize int    `mapstructure:"initial_size"`
	MaxSize     int    `mapstructure:"max_size"`
	Policy      string `mapstructure:"policy"` // grow, reject, evict_oldest
}

// StandardConfig extends the built-in naming tables.
// Mappings are "legacy=canonical" pairs since viper lowercases map keys.
type StandardConfig struct {
	ExtraMappings   []string `mapstructure:"extra_mappings"`
	ExtraNamespaces []string `mapstructure:"extra_namespaces"`
}

// FeedConfig holds HUD feed timings
type FeedConfig struct {
	KillFeedDuration     time.Duration `mapstructure:"kill_feed_duration"`
	KillFeedMaxVisible   int           `mapstructure:"kill_feed_max_visible"`
	NotificationDuration time.Duration `mapstructure:"notification_duration"`
	NotificationMax      int           `mapstructure:"notification_max_visible"`
}

// RedisConfig holds Redis-specific configuration; an empty URL means in-memory storage
type RedisConfig struct {
	URL       string        `mapstructure:"url"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// Load reads configuration from defaults, an optional file and HUD_* environment variables.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read config file "+path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("bus.debug", false)
	v.SetDefault("bus.validate_names", false)
	v.SetDefault("bus.validate_payloads", false)

	v.SetDefault("pool.initial_size", 10)
	v.SetDefault("pool.max_size", 50)
	v.SetDefault("pool.policy", "grow")

	v.SetDefault("standard.extra_mappings", []string{})
	v.SetDefault("standard.extra_namespaces", []string{})

	v.SetDefault("feed.kill_feed_duration", 4*time.Second)
	v.SetDefault("feed.kill_feed_max_visible", 5)
	v.SetDefault("feed.notification_duration", 3*time.Second)
	v.SetDefault("feed.notification_max_visible", 3)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.key_prefix", "hud:")
	v.SetDefault("redis.ttl", 7*24*time.Hour)
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.Pool.InitialSize < 0 || c.Pool.MaxSize < 0 {
		return errors.InvalidArgumentf("pool sizes must be non-negative (initial=%d, max=%d)",
			c.Pool.InitialSize, c.Pool.MaxSize)
	}
	if c.Pool.MaxSize > 0 && c.Pool.InitialSize > c.Pool.MaxSize {
		return errors.InvalidArgumentf("pool initial size %d exceeds max size %d",
			c.Pool.InitialSize, c.Pool.MaxSize)
	}
	switch c.Pool.Policy {
	case "grow", "reject", "evict_oldest":
	default:
		return errors.InvalidArgumentf("unknown pool policy %q", c.Pool.Policy)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return errors.InvalidArgumentf("unknown log format %q", c.Log.Format)
	}
	if _, err := c.Mappings(); err != nil {
		return err
	}
	return nil
}

// Mappings parses Standard.ExtraMappings into a legacy -> canonical map
func (c *Config) Mappings() (map[string]string, error) {
	out := make(map[string]string, len(c.Standard.ExtraMappings))
	for _, pair := range c.Standard.ExtraMappings {
		from, to, ok := strings.Cut(pair, "=")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, errors.InvalidArgumentf("malformed event mapping %q, want legacy=canonical", pair)
		}
		out[from] = to
	}
	return out, nil
}
