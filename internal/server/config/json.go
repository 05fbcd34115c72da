package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/kracker/internal/flagx"
	"github.com/dmitrijs2005/kracker/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept "1m"
// style strings or integer nanoseconds; pointer fields distinguish "absent"
// from an explicit false or zero.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	DBMaxOpenConns              int            `json:"db_max_open_conns"`
	DBMaxIdleConns              int            `json:"db_max_idle_conns"`
	DBConnMaxLifetime           timex.Duration `json:"db_conn_max_lifetime"`
	RunMigrations               *bool          `json:"run_migrations"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	Argon2Time                  uint32         `json:"argon2_time"`
	Argon2Memory                uint32         `json:"argon2_memory_kib"`
	Argon2Threads               uint8          `json:"argon2_threads"`
	HashConcurrency             int            `json:"hash_concurrency"`
	EnableDevRoutes             *bool          `json:"enable_dev_routes"`
	ExposeStoreDiagnostics      *bool          `json:"expose_store_diagnostics"`
	AllowedOrigins              []string       `json:"allowed_origins"`
	LogFormat                   string         `json:"log_format"`
	LogLevel                    string         `json:"log_level"`
	HealthCheckInterval         timex.Duration `json:"health_check_interval"`
}

// parseJson loads the file named by -c/-config, if any, and copies every
// field it sets into config. A missing flag loads nothing; an unreadable file
// or invalid JSON panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)

	if c.DBMaxOpenConns > 0 {
		config.DBMaxOpenConns = c.DBMaxOpenConns
	}
	if c.DBMaxIdleConns > 0 {
		config.DBMaxIdleConns = c.DBMaxIdleConns
	}
	if c.DBConnMaxLifetime.Duration > 0 {
		config.DBConnMaxLifetime = c.DBConnMaxLifetime.Duration
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.HealthCheckInterval.Duration > 0 {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
	if c.Argon2Time > 0 {
		config.Argon2Time = c.Argon2Time
	}
	if c.Argon2Memory > 0 {
		config.Argon2Memory = c.Argon2Memory
	}
	if c.Argon2Threads > 0 {
		config.Argon2Threads = c.Argon2Threads
	}
	if c.HashConcurrency > 0 {
		config.HashConcurrency = c.HashConcurrency
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}

	setBool(&config.RunMigrations, c.RunMigrations)
	setBool(&config.EnableDevRoutes, c.EnableDevRoutes)
	setBool(&config.ExposeStoreDiagnostics, c.ExposeStoreDiagnostics)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
