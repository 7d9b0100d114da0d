// ABOUTME: AuthService converting credentials to tokens and tokens to principals
// ABOUTME: The single place registration, login, and token verification happen

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/2389/blog-server/internal/apperror"
	"github.com/2389/blog-server/internal/store"
)

// Service converts credentials into tokens and tokens into principals.
// It consults the UserDirectory for account state but owns no storage of
// its own; tokens are self-contained and never persisted server-side.
type Service struct {
	codec  *TokenCodec
	users  store.UserDirectory
	hasher PasswordHasher
	logger *slog.Logger
}

// NewService creates an auth service. A nil logger falls back to
// slog.Default.
func NewService(codec *TokenCodec, users store.UserDirectory, hasher PasswordHasher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		codec:  codec,
		users:  users,
		hasher: hasher,
		logger: logger.With("component", "auth"),
	}
}

// Register persists a new user and returns it. The email must not already
// be registered. Register never mints a token; whether a token accompanies
// a registration response is a transport-level decision.
func (s *Service) Register(ctx context.Context, username, email, password string) (*store.User, error) {
	if username == "" {
		return nil, apperror.New(apperror.KindInvalidArgument, "username required")
	}
	if email == "" {
		return nil, apperror.New(apperror.KindInvalidArgument, "email required")
	}
	if password == "" {
		return nil, apperror.New(apperror.KindInvalidArgument, "password required")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "hashing password", err)
	}

	user := &store.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, apperror.New(apperror.KindAlreadyExists, "email already registered")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "creating user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the email/password pair and issues a token for the account.
// Unknown email and wrong password are indistinguishable by contract: both
// fail with the same invalid-credentials error.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperror.New(apperror.KindInvalidCredentials, "invalid email or password")
		}
		return "", apperror.Wrap(apperror.KindInternal, "looking up user", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", apperror.New(apperror.KindInvalidCredentials, "invalid email or password")
	}

	token, err := s.codec.Issue(user.ID)
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, "issuing token", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return token, nil
}

// Authenticate verifies a token and resolves its subject to a Principal.
// A subject that no longer resolves (deleted account) is an authentication
// failure, not an internal error.
func (s *Service) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidToken, "invalid or expired token", err)
	}

	user, err := s.users.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperror.New(apperror.KindInvalidToken, "principal not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "resolving principal", err)
	}

	return &Principal{
		ID:    user.ID,
		Email: user.Email,
	}, nil
}

// Authenticator is the part of Service the transport adapters depend on.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

var _ Authenticator = (*Service)(nil)
