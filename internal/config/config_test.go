package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KirkDiggler/fps-hud/internal/config"
	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Bus.Debug)
	assert.Equal(t, 10, cfg.Pool.InitialSize)
	assert.Equal(t, 50, cfg.Pool.MaxSize)
	assert.Equal(t, "grow", cfg.Pool.Policy)
	assert.Equal(t, 4*time.Second, cfg.Feed.KillFeedDuration)
	assert.Equal(t, "hud:", cfg.Redis.KeyPrefix)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hud.yaml")
	content := `
bus:
  debug: true
  validate_names: true
pool:
  initial_size: 2
  max_size: 3
  policy: reject
standard:
  extra_mappings:
    - "frag:scored=enemy:killed"
  extra_namespaces:
    - radar
feed:
  kill_feed_duration: 1500ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("HUD_POOL_MAX_SIZE", "8")
	t.Setenv("HUD_LOG_LEVEL", "debug")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Bus.Debug)
	assert.True(t, cfg.Bus.ValidateNames)
	assert.False(t, cfg.Bus.ValidatePayloads)
	assert.Equal(t, 2, cfg.Pool.InitialSize)
	assert.Equal(t, 8, cfg.Pool.MaxSize)
	assert.Equal(t, "reject", cfg.Pool.Policy)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 1500*time.Millisecond, cfg.Feed.KillFeedDuration)
	assert.Equal(t, []string{"radar"}, cfg.Standard.ExtraNamespaces)

	mappings, err := cfg.Mappings()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"frag:scored": "enemy:killed"}, mappings)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{
			name:   "initial above max",
			mutate: func(c *config.Config) { c.Pool.InitialSize = 10; c.Pool.MaxSize = 5 },
		},
		{
			name:   "negative size",
			mutate: func(c *config.Config) { c.Pool.MaxSize = -1 },
		},
		{
			name:   "unknown policy",
			mutate: func(c *config.Config) { c.Pool.Policy = "shrink" },
		},
		{
			name:   "unknown log format",
			mutate: func(c *config.Config) { c.Log.Format = "xml" },
		},
		{
			name:   "malformed mapping",
			mutate: func(c *config.Config) { c.Standard.ExtraMappings = []string{"hit:landed"} },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := config.Load("")
			require.NoError(t, err)

			tc.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
}
