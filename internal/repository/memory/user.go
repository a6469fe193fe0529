package memory

import (
	"context"

	"github.com/msomdec/todolist/internal/domain"
)

// UserRepository implements domain.UserRepository over a Store.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]domain.User, len(r.s.users))
	copy(users, r.s.users)
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create appends the user with the next id. Email uniqueness is not checked
// here; callers that need it must check first.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.ID = r.s.allocUserID()
	user.CreatedAt = r.s.now()
	r.s.users = append(r.s.users, *user)
	return nil
}
