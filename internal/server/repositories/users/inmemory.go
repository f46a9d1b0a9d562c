package users

import (
	"context"
	"sync"

	"github.com/ashishkaushik/leazzy/internal/common"
	"github.com/ashishkaushik/leazzy/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

var _ Repository = (*InMemoryRepository)(nil)

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]models.User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return common.ErrorAlreadyExists
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *InMemoryRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[user.ID]
	if !ok {
		return common.ErrorNotFound
	}
	u.Name = user.Name
	u.Phone = user.Phone
	u.AvatarURL = user.AvatarURL
	u.EmailVerified = user.EmailVerified
	r.users[user.ID] = u
	return nil
}
