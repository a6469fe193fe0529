package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/msomdec/todolist/internal/domain"
)

const todoColumns = `id, title, completed, user_id, created_at, updated_at`

// TodoRepository implements domain.TodoRepository using SQLite. Every
// statement filters on both id and user_id.
type TodoRepository struct {
	db *sql.DB
}

// NewTodoRepository creates a new SQLite-backed TodoRepository.
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db.SqlDB}
}

func (r *TodoRepository) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	todos := make([]domain.Todo, 0)
	ownerID, ok := parseID(userID)
	if !ok {
		return todos, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.Todo
		if err := scanTodo(rows, &t); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) GetByID(ctx context.Context, id, userID string) (*domain.Todo, error) {
	return getTodo(ctx, r.db, id, userID)
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	ownerID, ok := parseID(todo.UserID)
	if !ok {
		return fmt.Errorf("%w: unknown owner %q", domain.ErrInvalidInput, todo.UserID)
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (title, completed, user_id, created_at, updated_at)
		 VALUES (?, FALSE, ?, ?, ?)`,
		todo.Title, ownerID, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get todo id: %w", err)
	}

	todo.ID = strconv.FormatInt(id, 10)
	todo.Completed = false
	todo.CreatedAt = now
	todo.UpdatedAt = now
	return nil
}

// Update reads and writes the row inside one transaction, so a miss leaves
// the table untouched.
func (r *TodoRepository) Update(ctx context.Context, id, userID string, patch domain.TodoPatch) (*domain.Todo, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	todo, err := getTodo(ctx, tx, id, userID)
	if err != nil {
		return nil, err
	}

	if patch.Apply(todo) {
		rowID, _ := parseID(todo.ID)
		ownerID, _ := parseID(todo.UserID)
		todo.UpdatedAt = time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			`UPDATE todos SET title = ?, completed = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
			todo.Title, todo.Completed, todo.UpdatedAt, rowID, ownerID,
		); err != nil {
			return nil, fmt.Errorf("update todo: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit todo update: %w", err)
	}
	return todo, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	rowID, ok := parseID(id)
	if !ok {
		return false, nil
	}
	ownerID, ok := parseID(userID)
	if !ok {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = ? AND user_id = ?`, rowID, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete todo: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete todo rows affected: %w", err)
	}
	return n > 0, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTodo(ctx context.Context, q queryRower, id, userID string) (*domain.Todo, error) {
	rowID, ok := parseID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	ownerID, ok := parseID(userID)
	if !ok {
		return nil, domain.ErrNotFound
	}

	t := &domain.Todo{}
	err := scanTodo(q.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = ? AND user_id = ?`, rowID, ownerID), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner, t *domain.Todo) error {
	return s.Scan(&t.ID, &t.Title, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
}
