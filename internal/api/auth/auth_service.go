package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rmarques/go-rest-starter/internal/api"
	"github.com/rmarques/go-rest-starter/internal/api/user"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService composes the credential store, the password hasher and the
// token issuer into the register/login flows.
type AuthService interface {
	// Register creates a user from fresh credentials and returns a session
	// for it. Returns api.ErrConflict when the email is already taken.
	Register(ctx context.Context, req RegisterRequest) (*IssuedSession, error)

	// Login authenticates credentials and returns a session. Unknown email
	// and wrong password both surface as api.ErrUnauthenticated so callers
	// cannot tell which one occurred.
	Login(ctx context.Context, req LoginRequest) (*IssuedSession, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   user.UserRepo
	hasher PasswordHasher
	issuer TokenIssuer
}

func NewAuthService(repo user.UserRepo, hasher PasswordHasher, issuer TokenIssuer, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*IssuedSession, error) {
	email := user.NormalizeEmail(req.Email)

	// Cheap pre-check; the unique index on users.email is the real guard
	// under concurrent registration.
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("user with this email already exists: %w", api.ErrConflict)
	}
	if !errors.Is(err, api.ErrNotFound) {
		return nil, fmt.Errorf("register: email lookup failed: %w", err)
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.repo.Create(ctx, user.CreateUserParams{
		Email:        email,
		PasswordHash: digest,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         "user",
		IsActive:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.InfoContext(ctx, "User registered",
		slog.String("user_id", created.ID.String()))
	return s.issueSession(created)
}

func (s *AuthServiceImpl) Login(ctx context.Context, req LoginRequest) (*IssuedSession, error) {
	u, err := s.repo.FindByEmail(ctx, user.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("login: email lookup failed: %w", err)
	}

	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
	}

	s.logger.InfoContext(ctx, "User logged in",
		slog.String("user_id", u.ID.String()))
	return s.issueSession(u)
}

func (s *AuthServiceImpl) issueSession(u *user.User) (*IssuedSession, error) {
	token, err := s.issuer.Sign(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	return &IssuedSession{
		AccessToken: token,
		User:        publicUser(u),
	}, nil
}
