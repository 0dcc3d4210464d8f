package memory

import (
	"context"
	"time"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
	apperrors "github.com/Project-Dev-Me/UMKMInfo/pkg/errors"
)

// UserRepository implements repository.UserRepository on a Store.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates an in-memory user repository.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(_ context.Context, u *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Email == u.Email {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
	}

	r.store.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}

	return nil, apperrors.ErrNotFound
}

func (r *UserRepository) Update(_ context.Context, u *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.users[u.ID]
	if !ok {
		return apperrors.NotFound("user", u.ID)
	}

	u.UpdatedAt = time.Now().UTC()

	updated := cloneUser(u)
	updated.Email = existing.Email
	updated.PasswordHash = existing.PasswordHash

	r.store.users[u.ID] = updated
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[id]
	if !ok {
		return apperrors.NotFound("user", id)
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}
