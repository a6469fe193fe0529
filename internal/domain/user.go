package domain

import (
	"context"
	"time"
)

// User represents a registered account. Password holds the stored secret:
// the password itself under the plain scheme, a bcrypt hash otherwise.
type User struct {
	ID        string
	Email     string
	Password  string
	CreatedAt time.Time
}

// UserRepository defines persistence operations for users.
// Create does not enforce email uniqueness; that is a service rule.
type UserRepository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
}
