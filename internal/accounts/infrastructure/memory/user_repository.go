package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	accounts "well-analysis/internal/accounts/domain"
)

// UserRepository is an in-memory user store.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]accounts.User
}

// NewUserRepository constructs an empty store.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]accounts.User)}
}

func (r *UserRepository) conflicts(user accounts.User) bool {
	for id, existing := range r.users {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username || strings.EqualFold(existing.Email, user.Email) {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(ctx context.Context, user accounts.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok || r.conflicts(user) {
		return accounts.ErrDuplicateUser
	}
	r.users[user.ID] = user
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user accounts.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return accounts.ErrUserNotFound
	}
	if r.conflicts(user) {
		return accounts.ErrDuplicateUser
	}
	r.users[user.ID] = user
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*accounts.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, accounts.ErrUserNotFound
	}
	return &user, nil
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*accounts.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Username == login || strings.EqualFold(user.Email, login) {
			u := user
			return &u, nil
		}
	}
	return nil, accounts.ErrUserNotFound
}

// List returns users ordered by creation time.
func (r *UserRepository) List(ctx context.Context) ([]accounts.User, error) {
	_ = ctx
	r.mu.RLock()
	out := make([]accounts.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
