package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/todolist/internal/domain"
)

// IdentityResolver issues credentials for users and maps a bearer credential
// back to a user. Resolve returns (nil, nil) for an empty, malformed or
// unknown credential; a non-nil error means the user lookup itself failed.
type IdentityResolver interface {
	Issue(user *domain.User) (string, error)
	Resolve(ctx context.Context, credential string) (*domain.User, error)
}

// DefaultTokenPrefix is the prefix used by the compatibility token scheme.
const DefaultTokenPrefix = "token_"

// PrefixResolver implements the compatibility scheme: the credential is the
// user id behind a fixed prefix. It is not verifiable and can be forged by
// anyone who knows a user id. A credential lacking the prefix, such as a
// bare user id, resolves to anonymous rather than being looked up as is.
type PrefixResolver struct {
	users  domain.UserRepository
	prefix string
}

// NewPrefixResolver creates a PrefixResolver using DefaultTokenPrefix.
func NewPrefixResolver(users domain.UserRepository) *PrefixResolver {
	return &PrefixResolver{users: users, prefix: DefaultTokenPrefix}
}

func (r *PrefixResolver) Issue(user *domain.User) (string, error) {
	return r.prefix + user.ID, nil
}

func (r *PrefixResolver) Resolve(ctx context.Context, credential string) (*domain.User, error) {
	if credential == "" {
		return nil, nil
	}
	id, ok := strings.CutPrefix(credential, r.prefix)
	if !ok || id == "" {
		return nil, nil
	}
	return lookupUser(ctx, r.users, id)
}

// JWTResolver issues HS256-signed tokens carrying the user id in the sub
// claim. Tokens carry no expiry.
type JWTResolver struct {
	users  domain.UserRepository
	secret []byte
	now    func() time.Time
}

// NewJWTResolver creates a JWTResolver signing with the given secret.
func NewJWTResolver(users domain.UserRepository, secret string) *JWTResolver {
	return &JWTResolver{
		users:  users,
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (r *JWTResolver) Issue(user *domain.User) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  user.ID,
		IssuedAt: jwt.NewNumericDate(r.now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (r *JWTResolver) Resolve(ctx context.Context, credential string) (*domain.User, error) {
	if credential == "" {
		return nil, nil
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		slog.DebugContext(ctx, "rejected bearer token", "error", err)
		return nil, nil
	}

	if claims.Subject == "" {
		return nil, nil
	}
	return lookupUser(ctx, r.users, claims.Subject)
}

func lookupUser(ctx context.Context, users domain.UserRepository, id string) (*domain.User, error) {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return user, nil
}
