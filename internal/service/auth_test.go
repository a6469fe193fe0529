package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/msomdec/todolist/internal/domain"
	"github.com/msomdec/todolist/internal/repository/memory"
	"github.com/msomdec/todolist/internal/service"
)

func TestAccountService_Signup_DuplicateEmail(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db domain.Database) {
		accounts := newAccountService(db)
		ctx := context.Background()

		first := mustSignup(t, accounts, "a@x.com", "p1")
		if first.User.ID != "1" {
			t.Fatalf("expected user id 1, got %q", first.User.ID)
		}
		if first.Token != "token_1" {
			t.Fatalf("expected token_1, got %q", first.Token)
		}

		_, err := accounts.Signup(ctx, "a@x.com", "p2")
		if !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}

		users, err := db.Users().List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(users) != 1 || users[0].Password != "p1" {
			t.Fatalf("duplicate signup mutated the store: %+v", users)
		}
	})
}

func TestAccountService_Signup_EmailIsCaseSensitive(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db domain.Database) {
		accounts := newAccountService(db)

		mustSignup(t, accounts, "a@x.com", "p1")
		second := mustSignup(t, accounts, "A@x.com", "p1")
		if second.User.ID != "2" {
			t.Fatalf("expected user id 2, got %q", second.User.ID)
		}
	})
}

func TestAccountService_Signup_ConcurrentDuplicates(t *testing.T) {
	store := memory.New()
	accounts := newAccountService(store)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := accounts.Signup(ctx, "race@x.com", "pw"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("expected exactly one successful signup, got %d", succeeded)
	}
	users, _ := store.Users().List(ctx)
	if len(users) != 1 {
		t.Fatalf("expected one stored user, got %d", len(users))
	}
}

func TestAccountService_Login(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db domain.Database) {
		accounts := newAccountService(db)
		ctx := context.Background()

		mustSignup(t, accounts, "a@x.com", "p1")
		bob := mustSignup(t, accounts, "b@x.com", "p1")
		if bob.User.ID != "2" {
			t.Fatalf("expected user id 2, got %q", bob.User.ID)
		}

		_, err := accounts.Login(ctx, "b@x.com", "wrong")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
		}

		_, err = accounts.Login(ctx, "nobody@x.com", "p1")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
		}

		payload, err := accounts.Login(ctx, "b@x.com", "p1")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if payload.User.ID != "2" || payload.Token != "token_2" {
			t.Fatalf("unexpected payload: token=%q user=%+v", payload.Token, payload.User)
		}
	})
}

func TestAccountService_Login_FailuresAreIndistinguishable(t *testing.T) {
	accounts := newAccountService(memory.New())
	ctx := context.Background()
	mustSignup(t, accounts, "a@x.com", "p1")

	_, wrongPassword := accounts.Login(ctx, "a@x.com", "nope")
	_, unknownEmail := accounts.Login(ctx, "z@x.com", "p1")

	if wrongPassword == nil || unknownEmail == nil {
		t.Fatal("expected both logins to fail")
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("error messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAccountService_ResolveIdentity(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db domain.Database) {
		accounts := newAccountService(db)
		ctx := context.Background()
		payload := mustSignup(t, accounts, "a@x.com", "p1")

		user, err := accounts.ResolveIdentity(ctx, payload.Token)
		if err != nil {
			t.Fatalf("ResolveIdentity: %v", err)
		}
		if user == nil || user.ID != payload.User.ID {
			t.Fatalf("expected user %q, got %+v", payload.User.ID, user)
		}

		anon, err := accounts.ResolveIdentity(ctx, "")
		if err != nil || anon != nil {
			t.Fatalf("expected anonymous for empty credential, got %+v, %v", anon, err)
		}
	})
}

func TestAccountService_Bcrypt(t *testing.T) {
	store := memory.New()
	// Use cost 4 for fast tests.
	accounts := service.NewAccountService(store.Users(), service.NewPrefixResolver(store.Users()), service.BcryptPasswords{Cost: 4})
	ctx := context.Background()

	payload := mustSignup(t, accounts, "hash@x.com", "password123")
	if payload.User.Password == "password123" {
		t.Fatal("expected stored password to be hashed")
	}

	if _, err := accounts.Login(ctx, "hash@x.com", "password123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := accounts.Login(ctx, "hash@x.com", "password124"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_JWT(t *testing.T) {
	store := memory.New()
	accounts := service.NewAccountService(store.Users(), service.NewJWTResolver(store.Users(), testJWTSecret), service.PlainPasswords{})
	ctx := context.Background()

	payload := mustSignup(t, accounts, "jwt@x.com", "pw")
	if payload.Token == "token_1" {
		t.Fatal("expected a signed token, got the prefix scheme")
	}

	user, err := accounts.ResolveIdentity(ctx, payload.Token)
	if err != nil {
		t.Fatalf("ResolveIdentity: %v", err)
	}
	if user == nil || user.Email != "jwt@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	forged, err := accounts.ResolveIdentity(ctx, "token_1")
	if err != nil || forged != nil {
		t.Fatalf("expected forged prefix token to resolve to anonymous, got %+v, %v", forged, err)
	}
}
