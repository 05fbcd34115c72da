package repomanager

import (
	"context"

	"github.com/dmitrijs2005/kracker/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps everything in process memory; data is lost
// on restart.
type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *InMemoryRepositoryManager) Ping(context.Context) error          { return nil }
func (m *InMemoryRepositoryManager) Close() error                        { return nil }

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}
