// Package sqlite provides a SQL-backed entity store on modernc.org/sqlite.
// It satisfies the same repository contracts as the in-memory store and is
// opened on ":memory:" unless a file path is configured.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/msomdec/todolist/internal/domain"
	"github.com/msomdec/todolist/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection and hands out repositories.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection keeps ":memory:" databases alive and serializes
	// every statement against the store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

// Users returns a SQLite-backed user repository.
func (db *DB) Users() domain.UserRepository {
	return NewUserRepository(db)
}

// Todos returns a SQLite-backed todo repository.
func (db *DB) Todos() domain.TodoRepository {
	return NewTodoRepository(db)
}

// parseID converts an opaque string id to its row id. Ids must be in the
// canonical form the store hands out ("1", not "01" or "+1"); anything else
// can never match a row.
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 || strconv.FormatInt(n, 10) != id {
		return 0, false
	}
	return n, true
}
