package properties

import (
	"context"
	"sort"
	"sync"

	"github.com/ashishkaushik/leazzy/internal/common"
	"github.com/ashishkaushik/leazzy/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.Property
}

var _ Repository = (*InMemoryRepository)(nil)

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string]models.Property)}
}

func (r *InMemoryRepository) Create(ctx context.Context, property *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[property.ID] = *property
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Property, 0, len(r.items))
	for id := range r.items {
		p := r.items[id]
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
