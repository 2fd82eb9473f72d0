package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"go.uber.org/multierr"

	"botto/internal/bot/cache"
	"botto/internal/bot/ingest"
	"botto/internal/bot/repository"
	botservice "botto/internal/bot/service"
	"botto/internal/bot/state"
	"botto/internal/common/metrics"
	"botto/internal/config"
	"botto/internal/database"
	"botto/internal/domain/errors"
	"botto/internal/domain/models"
	"botto/internal/domain/repositories"
	infraclients "botto/internal/infrastructure/clients"
	"botto/internal/telegram"
	"botto/pkg"
	"botto/pkg/txs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start service: %v\n", err)
		os.Exit(1)
	}
}

//nolint:funlen // sequential wiring of all components
func run() error {
	appLogger := pkg.NewLogger(os.Stdout)

	cfg := config.LoadConfig()

	if cfg.BotToken == "" {
		return &errors.ErrMissingBotToken{}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := database.NewPostgresDB(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	txManager := txs.NewTxManager(db.Pool, appLogger)

	repoFactory := repository.NewFactory(db, cfg, appLogger)

	userRepo, err := repoFactory.CreateUserRepository()
	if err != nil {
		return fmt.Errorf("failed to create user repository: %w", err)
	}

	userDirectory, redisCache := wrapWithCache(userRepo, cfg, appLogger)

	stateStore := state.NewFileStore(cfg.StateFile, appLogger)

	botState, err := stateStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load bot state: %w", err)
	}

	telegramClient := infraclients.NewTelegramClient(cfg, appLogger)

	users, err := userDirectory.GetUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	session := models.NewSession(users)

	ingestor := ingest.NewIngestor(telegramClient, stateStore, &botState, appLogger)
	dispatcher := botservice.NewDispatcher(userDirectory, telegramClient, stateStore, txManager, &botState, appLogger)

	poller := telegram.NewPoller(ingestor, dispatcher, session, cfg.PollInterval, appLogger)
	go poller.Start(ctx)

	metricsServer := metrics.NewMetricsServer(cfg.MetricsPort, appLogger)

	go func() {
		if err := metricsServer.Start(ctx); err != nil {
			appLogger.Error("Metrics server failed", "error", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutdown signal received")

	poller.Stop()

	return shutdown(metricsServer, redisCache, appLogger)
}

// wrapWithCache decorates the repository with the Redis roster cache when a
// Redis address is configured. Cache setup failures are not fatal; the bot
// runs straight off the database instead.
func wrapWithCache(
	userRepo repositories.UserRepository,
	cfg *config.Config,
	appLogger *slog.Logger,
) (repositories.UserRepository, *cache.RedisUserCache) {
	if cfg.RedisURL == "" {
		return userRepo, nil
	}

	cacheTTL := cfg.RedisCacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}

	redisCache, err := cache.NewRedisUserCache(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB, cacheTTL, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to Redis, continuing without cache", "error", err)

		return userRepo, nil
	}

	return cache.NewCachedUserRepository(userRepo, redisCache, appLogger), redisCache
}

func shutdown(metricsServer *metrics.MetricsServer, redisCache *cache.RedisUserCache, appLogger *slog.Logger) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error

	if stopErr := metricsServer.Stop(shutdownCtx); stopErr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to stop metrics server: %w", stopErr))
	}

	if redisCache != nil {
		if closeErr := redisCache.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close Redis connection: %w", closeErr))
		}
	}

	if err != nil {
		return err
	}

	appLogger.Info("Service stopped")

	return nil
}
