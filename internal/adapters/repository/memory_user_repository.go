package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

var _ domain.UserRepository = (*InMemoryUserRepository)(nil)

type InMemoryUserRepository struct {
	store   map[string]*domain.User
	byEmail map[string]string

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return domain.ErrEmailAlreadyExists
	}

	u := *user
	r.store[user.ID] = &u
	r.byEmail[email] = user.ID
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *r.store[id]
	return &u, nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (r *InMemoryUserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}

	stored.DisplayName = user.DisplayName
	stored.Role = user.Role
	stored.Stores = append(domain.StoreKeys{}, user.Stores...)
	stored.Active = user.Active
	stored.UpdatedAt = user.UpdatedAt
	return nil
}
