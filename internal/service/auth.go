package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/msomdec/todolist/internal/domain"
)

// AuthPayload is returned by signup and login.
type AuthPayload struct {
	Token string
	User  *domain.User
}

// AccountService handles signup, login and identity resolution.
type AccountService struct {
	users     domain.UserRepository
	identity  IdentityResolver
	passwords PasswordHasher

	// signupMu makes the email check and the insert one step.
	signupMu sync.Mutex
}

// NewAccountService creates a new AccountService.
func NewAccountService(users domain.UserRepository, identity IdentityResolver, passwords PasswordHasher) *AccountService {
	return &AccountService{
		users:     users,
		identity:  identity,
		passwords: passwords,
	}
}

// Signup registers a new user and returns a credential for it. It fails with
// domain.ErrAlreadyExists if the email is already registered.
func (s *AccountService) Signup(ctx context.Context, email, password string) (*AuthPayload, error) {
	s.signupMu.Lock()
	defer s.signupMu.Unlock()

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrAlreadyExists
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	stored, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Email: email, Password: stored}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.payload(user)
}

// Login verifies credentials. Unknown email and wrong password both yield
// domain.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !s.passwords.Matches(user.Password, password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.payload(user)
}

// ResolveIdentity maps a credential to a user, or nil for anonymous.
func (s *AccountService) ResolveIdentity(ctx context.Context, credential string) (*domain.User, error) {
	return s.identity.Resolve(ctx, credential)
}

func (s *AccountService) payload(user *domain.User) (*AuthPayload, error) {
	token, err := s.identity.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue credential: %w", err)
	}
	return &AuthPayload{Token: token, User: user}, nil
}
