// Package auth verifies credentials and issues session tokens. The
// gate is the only component that sees plaintext passwords, and the
// only one that turns bearer tokens back into users.
package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/chartvault/ChartVaultServer/internal/store"
)

// ErrInvalidCredentials is returned for an unknown username and for a
// wrong password alike.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// UserSource is the slice of the metadata store the gate needs.
type UserSource interface {
	GetUserByUsername(ctx context.Context, username string) (*store.User, error)
}

// Gate authenticates requests: credential checks on login, token
// resolution on everything after.
type Gate struct {
	users  UserSource
	tokens *TokenService
	logger *zap.Logger
}

func NewGate(users UserSource, secret string, ttl time.Duration, logger *zap.Logger) *Gate {
	return &Gate{
		users:  users,
		tokens: NewTokenService(secret, ttl),
		logger: logger,
	}
}

// Authenticate resolves username and verifies the password against the
// stored hash. An unknown user and a bad password both come back as
// ErrInvalidCredentials.
func (g *Gate) Authenticate(ctx context.Context, username, password string) (*store.User, error) {
	user, err := g.users.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !VerifyPassword(user.PasswordHash, password) {
		g.logger.Warn("Password mismatch", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a session token for the user.
func (g *Gate) IssueToken(user *store.User) (string, error) {
	return g.tokens.Issue(user.Username)
}

// ResolveToken validates the token and resolves its subject to a user.
// A subject that no longer exists is reported as ErrInvalidToken, same
// as a bad signature or expired token.
func (g *Gate) ResolveToken(ctx context.Context, token string) (*store.User, error) {
	username, err := g.tokens.Validate(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := g.users.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		g.logger.Warn("Token subject no longer resolves", zap.String("username", username))
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ResolveTokenOptional is ResolveToken for endpoints that serve both
// anonymous and authenticated callers: a missing or invalid token
// yields a nil user, never an error.
func (g *Gate) ResolveTokenOptional(ctx context.Context, token string) *store.User {
	if token == "" {
		return nil
	}
	user, err := g.ResolveToken(ctx, token)
	if err != nil {
		return nil
	}
	return user
}
