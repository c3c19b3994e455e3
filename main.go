package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	database "github.com/rmarques/go-rest-starter/app/db"
	appLogger "github.com/rmarques/go-rest-starter/app/logger"
	appMiddleware "github.com/rmarques/go-rest-starter/app/middleware"
	"github.com/rmarques/go-rest-starter/config"
	"github.com/rmarques/go-rest-starter/internal/api/auth"
	"github.com/rmarques/go-rest-starter/internal/api/upload"
	"github.com/rmarques/go-rest-starter/internal/api/user"
	api "github.com/rmarques/go-rest-starter/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.Setup(cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Database ---
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

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Dependency wiring ---
	userRepo := user.NewPostgresUserRepo(pool, logger)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	issuer := auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	authService := auth.NewAuthService(userRepo, hasher, issuer, logger)
	userService := user.NewUserService(userRepo, logger)

	authHandler := auth.NewAuthHandler(authService, logger)
	userHandler := user.NewUserHandler(userService, logger)
	uploadHandler := upload.NewUploadHandler(cfg.Upload.Dest, cfg.Upload.MaxFileSize, logger)

	mainRouter := api.SetupRouter(&api.Config{
		AuthHandler:            authHandler,
		UserHandler:            userHandler,
		UploadHandler:          uploadHandler,
		AuthenticateMiddleware: appMiddleware.Authenticate(issuer, logger),
		ThrottleLimit:          cfg.Throttle.Limit,
		ThrottleWindow:         cfg.Throttle.Window,
	})

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(appMiddleware.Metrics)
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	logger.Info("Application shut down complete.")
}
