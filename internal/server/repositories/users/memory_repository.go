package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/kracker/internal/common"
	"github.com/dmitrijs2005/kracker/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. It is meant for local
// development and tests; uniqueness is checked and applied under one lock.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]models.User
	byUserName map[string]string
	byEmail    map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]models.User),
		byUserName: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUserName[user.UserName]; ok {
		return nil, &common.ConflictError{Constraint: "users_username_key"}
	}
	if user.Email != "" {
		if _, ok := r.byEmail[user.Email]; ok {
			return nil, &common.ConflictError{Constraint: "users_email_key"}
		}
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()

	r.byID[user.ID] = *user
	r.byUserName[user.UserName] = user.ID
	if user.Email != "" {
		r.byEmail[user.Email] = user.ID
	}

	return user, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make(map[string]struct{}, 2)
	if id, ok := r.byUserName[login]; ok {
		ids[id] = struct{}{}
	}
	if id, ok := r.byEmail[login]; ok {
		ids[id] = struct{}{}
	}

	switch len(ids) {
	case 0:
		return nil, common.ErrorNotFound
	case 1:
		for id := range ids {
			u := r.byID[id]
			return &u, nil
		}
	}
	return nil, common.ErrorAmbiguous
}

// Len returns the number of stored users.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
