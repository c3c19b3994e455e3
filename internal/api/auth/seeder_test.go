package auth

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/rmarques/go-rest-starter/internal/api"
	"github.com/rmarques/go-rest-starter/internal/api/user"
)

func TestEnsureSeedUsers(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	accounts := DefaultSeedAccounts()

	t.Run("CreatesMissingAccounts", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		ctx := context.Background()

		for _, account := range accounts {
			account := account
			created := &user.User{ID: uuid.New(), Email: account.Email, Role: account.Role}
			mockRepo.On("FindByEmail", ctx, account.Email).Return(nil, api.ErrNotFound).Once()
			mockRepo.On("Create", ctx, mock.MatchedBy(func(p user.CreateUserParams) bool {
				return p.Email == account.Email && p.IsEmailVerified && p.IsActive
			})).Return(created, nil).Once()
		}

		err := EnsureSeedUsers(ctx, mockRepo, hasher, slog.Default(), accounts)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("SkipsExistingAccounts", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		ctx := context.Background()

		for _, account := range accounts {
			existing := &user.User{ID: uuid.New(), Email: account.Email}
			mockRepo.On("FindByEmail", ctx, account.Email).Return(existing, nil).Once()
		}

		err := EnsureSeedUsers(ctx, mockRepo, hasher, slog.Default(), accounts)
		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ToleratesInsertRace", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		ctx := context.Background()
		single := accounts[:1]

		mockRepo.On("FindByEmail", ctx, single[0].Email).Return(nil, api.ErrNotFound).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("user.CreateUserParams")).
			Return(nil, api.ErrConflict).Once()

		err := EnsureSeedUsers(ctx, mockRepo, hasher, slog.Default(), single)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}
