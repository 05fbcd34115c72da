package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_OverlaysSetVariables(t *testing.T) {
	t.Setenv(envFileVar, filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("ARGON2_MEMORY_KIB", "19456")
	t.Setenv("ENABLE_DEV_ROUTES", "false")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, uint32(19456), c.Argon2Memory)
	assert.False(t, c.EnableDevRoutes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)

	// untouched
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, DefaultSecretKey, c.SecretKey)
}

func TestParseEnv_LoadsDotEnvWithoutOverriding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nLOG_LEVEL=debug\n"), 0o600))

	t.Setenv(envFileVar, path)
	t.Setenv("LOG_LEVEL", "warn")
	// registered for cleanup so the value godotenv sets is removed afterwards
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "from-file", c.SecretKey)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestParseEnv_InvalidValuePanics(t *testing.T) {
	t.Setenv(envFileVar, filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("HASH_CONCURRENCY", "lots")

	var c Config
	require.Panics(t, func() { parseEnv(&c) })
}
