package memory

import (
	"context"
	"sync"

	"lms-api/internal/domain/user"
	"lms-api/internal/repository"
	"lms-api/pkg/database"
	lms_errors "lms-api/pkg/errors"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewUserRepository() repository.UserRepository {
	return &UserRepository{users: make(map[string]user.User)}
}

// Create enforces the same uniqueness as the email and username indexes in MongoDB.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return lms_errors.ErrConflict
		}
	}

	u.ID = database.NewID()
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.Email == email })
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return r.find(func(u user.User) bool { return u.Username == username })
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *UserRepository) find(match func(user.User) bool) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return u, nil
		}
	}
	return user.User{}, lms_errors.ErrNotFound
}
