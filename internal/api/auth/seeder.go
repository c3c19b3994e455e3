package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rmarques/go-rest-starter/internal/api"
	"github.com/rmarques/go-rest-starter/internal/api/user"
)

// SeedAccount is a well-known bootstrap account.
type SeedAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// DefaultSeedAccounts are the accounts EnsureSeedUsers creates on a fresh
// database.
func DefaultSeedAccounts() []SeedAccount {
	return []SeedAccount{
		{Email: "admin@example.com", Password: "admin123", FirstName: "Admin", LastName: "User", Role: "admin"},
		{Email: "user@example.com", Password: "user123", FirstName: "Regular", LastName: "User", Role: "user"},
	}
}

// EnsureSeedUsers creates the given accounts when they do not exist yet.
// It is idempotent: accounts whose email is already registered are skipped.
func EnsureSeedUsers(ctx context.Context, repo user.UserRepo, hasher PasswordHasher, logger *slog.Logger, accounts []SeedAccount) error {
	for _, account := range accounts {
		email := user.NormalizeEmail(account.Email)

		_, err := repo.FindByEmail(ctx, email)
		if err == nil {
			logger.InfoContext(ctx, "Seed user already exists", slog.String("email", email))
			continue
		}
		if !errors.Is(err, api.ErrNotFound) {
			return fmt.Errorf("seed: lookup of %s failed: %w", email, err)
		}

		digest, err := hasher.Hash(account.Password)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}

		created, err := repo.Create(ctx, user.CreateUserParams{
			Email:           email,
			PasswordHash:    digest,
			FirstName:       account.FirstName,
			LastName:        account.LastName,
			Role:            account.Role,
			IsEmailVerified: true,
			IsActive:        true,
		})
		if err != nil {
			// A concurrent seeder may have won the insert race.
			if errors.Is(err, api.ErrConflict) {
				logger.InfoContext(ctx, "Seed user already exists", slog.String("email", email))
				continue
			}
			return fmt.Errorf("seed: create of %s failed: %w", email, err)
		}
		logger.InfoContext(ctx, "Seed user created",
			slog.String("email", email), slog.String("user_id", created.ID.String()))
	}
	return nil
}
