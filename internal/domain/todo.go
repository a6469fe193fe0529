package domain

import (
	"context"
	"time"
)

// Todo is a single task owned by exactly one user.
type Todo struct {
	ID        string
	Title     string
	Completed bool
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoPatch carries a partial update. A nil field is left untouched; a
// non-nil field overwrites, including a pointer to the empty string.
type TodoPatch struct {
	Title     *string
	Completed *bool
}

// IsEmpty reports whether the patch supplies no fields.
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// Apply writes the supplied fields onto t and reports whether anything was set.
func (p TodoPatch) Apply(t *Todo) bool {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return !p.IsEmpty()
}

// TodoRepository defines persistence operations for todos. Every lookup and
// mutation is scoped by the owning user's ID: a todo owned by someone else is
// indistinguishable from one that does not exist.
type TodoRepository interface {
	ListByUser(ctx context.Context, userID string) ([]Todo, error)
	GetByID(ctx context.Context, id, userID string) (*Todo, error)
	Create(ctx context.Context, todo *Todo) error
	Update(ctx context.Context, id, userID string, patch TodoPatch) (*Todo, error)
	// Delete reports false, not an error, when no todo matches.
	Delete(ctx context.Context, id, userID string) (bool, error)
}
