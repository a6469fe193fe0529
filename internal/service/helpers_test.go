package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/todolist/internal/domain"
	"github.com/msomdec/todolist/internal/repository/memory"
	"github.com/msomdec/todolist/internal/repository/sqlite"
	"github.com/msomdec/todolist/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

// forEachBackend runs fn as a subtest against every storage backend.
func forEachBackend(t *testing.T, fn func(t *testing.T, db domain.Database)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		fn(t, memory.New())
	})

	t.Run("sqlite", func(t *testing.T) {
		db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("New DB: %v", err)
		}
		if err := db.Migrate(context.Background()); err != nil {
			t.Fatalf("Migrate: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		fn(t, db)
	})
}

func newAccountService(db domain.Database) *service.AccountService {
	return service.NewAccountService(db.Users(), service.NewPrefixResolver(db.Users()), service.PlainPasswords{})
}

func mustSignup(t *testing.T, accounts *service.AccountService, email, password string) *service.AuthPayload {
	t.Helper()
	payload, err := accounts.Signup(context.Background(), email, password)
	if err != nil {
		t.Fatalf("Signup(%s): %v", email, err)
	}
	return payload
}
