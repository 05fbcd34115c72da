// Package repomanager owns the storage backend: it opens the database, runs
// schema migrations and vends repositories bound to it.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/kracker/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Users() users.Repository
	Close() error
}

// MemoryDSN selects the in-memory backend instead of PostgreSQL.
const MemoryDSN = "memory"

// New returns the manager matching dsn: in-memory for MemoryDSN, PostgreSQL
// otherwise.
func New(dsn string, opts PoolOptions) (RepositoryManager, error) {
	if dsn == MemoryDSN {
		return NewInMemoryRepositoryManager(), nil
	}
	return NewPostgresRepositoryManager(dsn, opts)
}
