package memory

import (
	"context"

	"github.com/msomdec/todolist/internal/domain"
)

// TodoRepository implements domain.TodoRepository over a Store. Every
// lookup matches on both todo id and owner id.
type TodoRepository struct {
	s *Store
}

func (r *TodoRepository) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	todos := make([]domain.Todo, 0)
	for _, t := range r.s.todos {
		if t.UserID == userID {
			todos = append(todos, t)
		}
	}
	return todos, nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id, userID string) (*domain.Todo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.indexOf(id, userID)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	t := r.s.todos[i]
	return &t, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	todo.ID = r.s.allocTodoID()
	todo.Completed = false
	todo.CreatedAt = now
	todo.UpdatedAt = now
	r.s.todos = append(r.s.todos, *todo)
	return nil
}

func (r *TodoRepository) Update(ctx context.Context, id, userID string, patch domain.TodoPatch) (*domain.Todo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.indexOf(id, userID)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	if patch.Apply(&r.s.todos[i]) {
		r.s.todos[i].UpdatedAt = r.s.now()
	}
	t := r.s.todos[i]
	return &t, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.indexOf(id, userID)
	if i < 0 {
		return false, nil
	}
	r.s.todos = append(r.s.todos[:i], r.s.todos[i+1:]...)
	return true, nil
}

// indexOf must be called with the store lock held.
func (r *TodoRepository) indexOf(id, userID string) int {
	for i, t := range r.s.todos {
		if t.ID == id && t.UserID == userID {
			return i
		}
	}
	return -1
}
