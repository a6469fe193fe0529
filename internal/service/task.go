package service

import (
	"context"
	"fmt"

	"github.com/msomdec/todolist/internal/domain"
)

// TaskService handles todo operations on behalf of a resolved user. Lookups
// that miss, whether the todo is gone or belongs to someone else, all
// surface as domain.ErrNotFound.
type TaskService struct {
	todos domain.TodoRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(todos domain.TodoRepository) *TaskService {
	return &TaskService{todos: todos}
}

// ListForUser returns the user's todos in creation order.
func (s *TaskService) ListForUser(ctx context.Context, user *domain.User) ([]domain.Todo, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	todos, err := s.todos.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// GetByID returns one of the user's todos.
func (s *TaskService) GetByID(ctx context.Context, id string, user *domain.User) (*domain.Todo, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	todo, err := s.todos.GetByID(ctx, id, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return todo, nil
}

// Create adds a todo for the user. The title is not validated.
func (s *TaskService) Create(ctx context.Context, title string, user *domain.User) (*domain.Todo, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	todo := &domain.Todo{Title: title, UserID: user.ID}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// Update applies a partial update to one of the user's todos.
func (s *TaskService) Update(ctx context.Context, id string, user *domain.User, patch domain.TodoPatch) (*domain.Todo, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	todo, err := s.todos.Update(ctx, id, user.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

// DeleteByID removes one of the user's todos.
func (s *TaskService) DeleteByID(ctx context.Context, id string, user *domain.User) (bool, error) {
	if user == nil {
		return false, domain.ErrUnauthenticated
	}
	deleted, err := s.todos.Delete(ctx, id, user.ID)
	if err != nil {
		return false, fmt.Errorf("delete todo: %w", err)
	}
	if !deleted {
		return false, domain.ErrNotFound
	}
	return true, nil
}
