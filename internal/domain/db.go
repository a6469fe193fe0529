package domain

import "context"

// Database defines lifecycle operations and repository access for a storage
// backend. Each implementation (in-memory, SQLite) owns its own setup, so the
// backend is swappable without touching the services.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
	Users() UserRepository
	Todos() TodoRepository
}
