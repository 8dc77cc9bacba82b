package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Applies defaults for missing keys", func(t *testing.T) {
		// Given: a config file with only the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: loading it
		conf, err := Load(path)

		// Then: every other field has its default
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, HostTerminal, conf.Host)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.False(t, conf.Oracle.Cache)
		assert.False(t, conf.Bot.Enabled)
		assert.Equal(t, "O", conf.Bot.Mark)
		assert.Equal(t, "optimal", conf.Bot.Level)
	})

	t.Run("Reads nested sections", func(t *testing.T) {
		path := writeConfig(t, `
host: http
http-port: "8081"
redis:
  host: cache
  port: "6380"
oracle:
  cache: true
  cache-ttl: 1h
bot:
  enabled: true
  mark: X
  level: random
  seed: 42
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, HostHTTP, conf.Host)
		assert.Equal(t, "8081", conf.HTTPPort)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.True(t, conf.Oracle.Cache)
		assert.Equal(t, time.Hour, conf.Oracle.CacheTTL)
		assert.True(t, conf.Bot.Enabled)
		assert.Equal(t, "X", conf.Bot.Mark)
		assert.Equal(t, "random", conf.Bot.Level)
		assert.Equal(t, uint64(42), conf.Bot.Seed)
	})

	t.Run("Rejects an unknown host", func(t *testing.T) {
		path := writeConfig(t, "host: window\n")

		_, err := Load(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown host")
	})

	t.Run("Fails on a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.Error(t, err)
	})

	t.Run("MustLoad panics on a missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
		})
	})
}
