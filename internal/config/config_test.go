package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv([]string{
		"CANVASS_VARIANT=wizard",
		"CANVASS_SINK=redis",
		"CANVASS_REDIS_URL=redis://localhost:6379/0",
		"CANVASS_SESSION_TTL=90m",
		"CANVASS_PII_FIELDS=email,phone",
		"CANVASS_LOG_JSON=true",
		"CANVASS_MAX_INPUT_SIZE=1024",
		"CANVASS_GREETING=",
		"HOME=/root",
		"NOT_CANVASS_SINK=mongo",
	})
	require.NoError(t, err)

	assert.Equal(t, "wizard", cfg.Variant)
	assert.Equal(t, SinkRedis, cfg.Sink)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"email", "phone"}, cfg.PIIFields)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, 1024, cfg.MaxInputSize)

	// Untouched settings keep their defaults.
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Empty(t, cfg.Unknown)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_ReportsUnknownKeys(t *testing.T) {
	cfg, err := FromEnv([]string{"CANVASS_SINC=file", "CANVASS_PORTT=1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"portt", "sinc"}, cfg.Unknown)
}

func TestFromEnv_BadValue(t *testing.T) {
	_, err := FromEnv([]string{"CANVASS_TYPING_DELAY=soon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "typing_delay")
}

func TestMerge_FlagsOverrideEnv(t *testing.T) {
	cfg, err := FromEnv([]string{"CANVASS_VARIANT=form", "CANVASS_SINK=memory"})
	require.NoError(t, err)

	require.NoError(t, cfg.Merge(map[string]string{"variant": "assistant"}))
	assert.Equal(t, "assistant", cfg.Variant)
	assert.Equal(t, SinkMemory, cfg.Sink)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CANVASS_SOURCE=kiosk\nCANVASS_VARIANT=form\n"), 0644))

	// Variables already in the environment take priority over the file.
	t.Setenv("CANVASS_VARIANT", "wizard")
	t.Cleanup(func() { os.Unsetenv("CANVASS_SOURCE") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kiosk", cfg.Source)
	assert.Equal(t, "wizard", cfg.Variant)

	_, err = Load(filepath.Join(dir, "missing.env"))
	assert.NoError(t, err, "a missing .env file is not an error")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Unknown Variant", func(c *Config) { c.Variant = "poll" }, "unknown variant"},
		{"Unknown Sink", func(c *Config) { c.Sink = "s3" }, "unknown sink"},
		{"HTTP Without URL", func(c *Config) { c.Sink = SinkHTTP }, "collector_url"},
		{"Mongo Without URI", func(c *Config) { c.Sink = SinkMongo }, "mongo_uri"},
		{"Redis Store Without URL", func(c *Config) { c.Store = StoreRedis }, "redis_url"},
		{"Unknown Store", func(c *Config) { c.Store = "etcd" }, "unknown store"},
		{"Short Key", func(c *Config) { c.EncryptionKey = "abcd" }, "encryption_key"},
		{"Negative Input Size", func(c *Config) { c.MaxInputSize = -1 }, "max_input_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("Valid Key", func(t *testing.T) {
		cfg := Default()
		cfg.EncryptionKey = strings.Repeat("ab", 32)
		assert.NoError(t, cfg.Validate())
	})
}
