// Package listings caches property summaries fetched from the backend in the
// local SQLite database so the browse command keeps working while the server
// is unreachable.
package listings

import (
	"context"

	"github.com/ashishkaushik/leazzy/internal/client/models"
)

type Repository interface {
	// ReplaceAll atomically swaps the cached listing set.
	ReplaceAll(ctx context.Context, properties []models.Property) error
	List(ctx context.Context) ([]models.Property, error)
	Get(ctx context.Context, id string) (*models.Property, error)
}
