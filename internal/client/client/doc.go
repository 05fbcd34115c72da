// Package client talks to the kracker server on behalf of the CLI.
//
// HTTPClient implements Client against the HTTP API (register, login, me and
// the health probes). HealthProbe queries the standard gRPC health service.
//
// Transport failures are reported as ErrUnavailable; a 401 from the server
// matches ErrUnauthorized. Other non-2xx answers come back as *APIError
// carrying the machine-readable error code.
package client
