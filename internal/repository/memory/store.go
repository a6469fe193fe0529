// Package memory provides the in-process entity store. It is the default
// backend: state lives for the lifetime of the Store value and nothing is
// written to disk.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/msomdec/todolist/internal/domain"
)

// Store holds the canonical user and todo collections. All reads and writes
// go through its repositories, which hand out copies and never live
// references. A single mutex guards both collections.
type Store struct {
	mu         sync.RWMutex
	users      []domain.User
	todos      []domain.Todo
	nextUserID int64
	nextTodoID int64
	now        func() time.Time
}

// New creates an empty Store. Id counters start at 1.
func New() *Store {
	return &Store{
		nextUserID: 1,
		nextTodoID: 1,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Migrate is a no-op; the in-memory store has no schema.
func (s *Store) Migrate(ctx context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// Users returns the user repository view of the store.
func (s *Store) Users() domain.UserRepository {
	return &UserRepository{s: s}
}

// Todos returns the todo repository view of the store.
func (s *Store) Todos() domain.TodoRepository {
	return &TodoRepository{s: s}
}

func (s *Store) allocUserID() string {
	id := strconv.FormatInt(s.nextUserID, 10)
	s.nextUserID++
	return id
}

func (s *Store) allocTodoID() string {
	id := strconv.FormatInt(s.nextTodoID, 10)
	s.nextTodoID++
	return id
}
