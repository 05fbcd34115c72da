// Package config loads runtime configuration for the kracker CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. KRACKER_SERVER_URL, KRACKER_GRPC_HEALTH_ADDR and
//     KRACKER_REQUEST_TIMEOUT environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// The merged result must pass (*Config).Validate.
//
// Supported flags
//
//	-a string   base URL of the server HTTP API
//	-g string   address:port of the server gRPC health endpoint
//	-t int      per-request timeout (seconds)
//
// # JSON schema
//
// Timeouts use timex.Duration, so values can be strings like "5s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "grpc_health_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s"
//	}
package config
