package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the kracker CLI.
type Config struct {
	ServerURL      string        `env:"KRACKER_SERVER_URL"`
	GRPCHealthAddr string        `env:"KRACKER_GRPC_HEALTH_ADDR"`
	RequestTimeout time.Duration `env:"KRACKER_REQUEST_TIMEOUT"`
}

// LoadDefaults populates c with local development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.GRPCHealthAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
}

// Validate rejects a server URL that is not absolute http(s) and a
// non-positive timeout.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server url must be an absolute http(s) URL, got %q", c.ServerURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), KRACKER_* environment variables and command-line flags.
// Later sources take precedence over earlier ones. It panics when the result
// does not validate.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// parseEnv overlays the fields whose variables are set. Unset variables
// leave the current value in place.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
