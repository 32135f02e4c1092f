package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "data", cfg.StoreFileDir)
	assert.True(t, cfg.SeedDemo)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 1.0, cfg.LoginRatePerSec)
	assert.Equal(t, 3, cfg.LoginRateBurst)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "FILE")
	t.Setenv("STORE_FILE_DIR", "/tmp/expiry")
	t.Setenv("STORE_SEED_DEMO", "false")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, "/tmp/expiry", cfg.StoreFileDir)
	assert.False(t, cfg.SeedDemo)
	assert.Equal(t, time.Hour, cfg.JWTTTL)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR: \":9090\"\nLOG_LEVEL: debug\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "warn", cfg.LogLevel, "environment overrides the file")
}

func TestValidate(t *testing.T) {
	valid, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.StoreBackend = "sqlite" }},
		{"postgres without url", func(c *Config) { c.StoreBackend = BackendPostgres; c.DatabaseURL = "" }},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero ttl", func(c *Config) { c.JWTTTL = 0 }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"zero burst", func(c *Config) { c.LoginRateBurst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	pg := valid
	pg.StoreBackend = BackendPostgres
	pg.DatabaseURL = "postgres://localhost/expiry"
	assert.NoError(t, pg.Validate())
}
