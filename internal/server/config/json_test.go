package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":             "www.example:8000",
		"endpoint_addr_grpc":             "www.example:9000",
		"database_dsn":                   "memory",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "15m",
		"health_check_interval":          5000000000,
		"argon2_time":                    2,
		"argon2_memory_kib":              19456,
		"argon2_threads":                 2,
		"hash_concurrency":               4,
		"enable_dev_routes":              false,
		"expose_store_diagnostics":       true,
		"allowed_origins":                []string{"https://app.example.com"},
		"log_format":                     "text",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:8000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "memory", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 5*time.Second, cfg.HealthCheckInterval)
		assert.Equal(t, uint32(2), cfg.Argon2Time)
		assert.Equal(t, uint32(19456), cfg.Argon2Memory)
		assert.Equal(t, uint8(2), cfg.Argon2Threads)
		assert.Equal(t, 4, cfg.HashConcurrency)
		assert.False(t, cfg.EnableDevRoutes)
		assert.True(t, cfg.ExposeStoreDiagnostics)
		assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
		assert.Equal(t, "text", cfg.LogFormat)

		// absent from the file, so defaults stay
		assert.Equal(t, "info", cfg.LogLevel)
		assert.True(t, cfg.RunMigrations)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		want := *cfg
		parseJson(cfg)

		assert.Equal(t, want, *cfg)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
