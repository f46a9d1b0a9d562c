// Package properties stores published rental listings.
package properties

import (
	"context"

	"github.com/ashishkaushik/leazzy/internal/server/models"
)

// Repository is the storage contract for listings.
type Repository interface {
	Create(ctx context.Context, property *models.Property) error

	// GetByID returns the listing or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Property, error)

	// List returns all listings, newest first.
	List(ctx context.Context) ([]*models.Property, error)
}
