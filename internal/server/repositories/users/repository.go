// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/ashishkaushik/leazzy/internal/server/models"
)

// Repository is the storage contract for user accounts.
type Repository interface {
	// Create inserts a new account. Returns common.ErrorAlreadyExists when
	// the email is taken.
	Create(ctx context.Context, user *models.User) error

	// GetByID returns the account or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail returns the account or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update persists the mutable profile fields (name, phone, avatar,
	// email-verified flag).
	Update(ctx context.Context, user *models.User) error
}
