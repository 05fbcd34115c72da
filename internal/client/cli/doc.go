// Package cli implements the interactive kracker client: a small REPL that
// registers, logs in, shows the current identity and probes server health.
// The access token lives only in memory for the session.
package cli
