// Package refreshtokens stores the opaque single-use refresh tokens paired
// with access tokens. Rotation deletes the presented token and inserts a
// fresh one inside one transaction.
package refreshtokens

import (
	"context"

	"github.com/ashishkaushik/leazzy/internal/server/models"
)

// Repository is the storage contract for refresh tokens.
type Repository interface {
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find returns the token row or common.ErrorNotFound.
	Find(ctx context.Context, id string) (*models.RefreshToken, error)

	Delete(ctx context.Context, id string) error

	// DeleteByUser revokes every token the user holds (logout).
	DeleteByUser(ctx context.Context, userID string) error
}
