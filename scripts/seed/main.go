// Seeds the database with the well-known bootstrap accounts. Safe to run
// more than once; existing accounts are skipped.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	database "github.com/rmarques/go-rest-starter/app/db"
	appLogger "github.com/rmarques/go-rest-starter/app/logger"
	"github.com/rmarques/go-rest-starter/config"
	"github.com/rmarques/go-rest-starter/internal/api/auth"
	"github.com/rmarques/go-rest-starter/internal/api/user"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := appLogger.Setup(cfg.Mode)

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}
	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}
	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	repo := user.NewPostgresUserRepo(pool, logger)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	if err := auth.EnsureSeedUsers(ctx, repo, hasher, logger, auth.DefaultSeedAccounts()); err != nil {
		logger.Error("Database seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Database seeding completed successfully")
}
