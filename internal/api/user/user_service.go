package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var _ UserService = (*UserServiceImpl)(nil)

// UserService exposes user management on top of the repository, with an
// in-process read cache on ID lookups.
type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
	cache  *cache.Cache
}

func NewUserService(repo UserRepo, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if cached, found := s.cache.Get(id.String()); found {
		if u, ok := cached.(*User); ok {
			return u, nil
		}
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(id.String(), u, cache.DefaultExpiration)
	return u, nil
}

func (s *UserServiceImpl) List(ctx context.Context) ([]User, error) {
	return s.repo.ListAll(ctx)
}

func (s *UserServiceImpl) Update(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*User, error) {
	u, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}
	s.cache.Set(id.String(), u, cache.DefaultExpiration)
	s.logger.InfoContext(ctx, "User updated", slog.String("user_id", id.String()))
	return u, nil
}

func (s *UserServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Remove(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(id.String())
	s.logger.InfoContext(ctx, "User deleted", slog.String("user_id", id.String()))
	return nil
}
