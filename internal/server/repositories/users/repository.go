// Package users persists credential records. Implementations enforce username
// and email uniqueness atomically and report violations as
// *common.ConflictError.
package users

import (
	"context"

	"github.com/dmitrijs2005/kracker/internal/server/models"
)

type Repository interface {
	// Create inserts user and returns it with ID and CreatedAt filled in.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns the single user whose username or email equals
	// login: common.ErrorNotFound when there is none, common.ErrorAmbiguous
	// when more than one record matches.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
