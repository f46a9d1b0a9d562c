// Package services contains application services for the Leazzy client:
// the favorites list and the property catalogue sitting between the CLI and
// the backend/storage layers.
package services

import (
	"context"

	"github.com/ashishkaushik/leazzy/internal/client/models"
	"github.com/ashishkaushik/leazzy/internal/client/state"
	"github.com/ashishkaushik/leazzy/internal/logging"
)

// FavoritesKey is the durable storage key for the favorites list.
const FavoritesKey = "leazzy_favorites"

// FavoritesService maintains the user's saved listings: an ordered list of
// full property summaries held in a persisted-state container, so favorites
// render without refetching and survive restarts.
type FavoritesService struct {
	cell *state.Cell[[]models.Property]
}

func NewFavoritesService(store state.Store, logger logging.Logger) *FavoritesService {
	return &FavoritesService{
		cell: state.New(store, FavoritesKey, []models.Property{}, state.WithLogger[[]models.Property](logger)),
	}
}

// Start hydrates the list from storage. An absent or corrupt stored value
// yields the empty list.
func (s *FavoritesService) Start(ctx context.Context) {
	s.cell.Load(ctx)
}

// List returns the saved listings in the order they were added.
func (s *FavoritesService) List() []models.Property {
	return append([]models.Property{}, s.cell.Get()...)
}

// IsFavorite reports whether the listing id is currently saved.
func (s *FavoritesService) IsFavorite(id string) bool {
	for _, p := range s.cell.Get() {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Toggle adds the listing when absent and removes it when present, keyed by
// id. It returns true when the listing ended up saved. Persistence is best
// effort; the in-memory list is authoritative.
func (s *FavoritesService) Toggle(ctx context.Context, p models.Property) bool {
	current := s.cell.Get()
	next := make([]models.Property, 0, len(current)+1)
	removed := false
	for _, fav := range current {
		if fav.ID == p.ID {
			removed = true
			continue
		}
		next = append(next, fav)
	}
	if !removed {
		next = append(next, p)
	}
	s.cell.Set(ctx, next)
	return !removed
}
