package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tsadityaa/BrowseCart/internal/config"
	"github.com/tsadityaa/BrowseCart/internal/db"
	"github.com/tsadityaa/BrowseCart/internal/logger"
	"github.com/tsadityaa/BrowseCart/internal/repository"
	"github.com/tsadityaa/BrowseCart/internal/router"
	"github.com/tsadityaa/BrowseCart/internal/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("backend", cfg.StoreBackend).Msg("Starting BrowseCart API")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	shops, users, closeStores, err := openStores(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStores()

	encoder, err := services.NewPasswordEncoder(cfg.PasswordScheme)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid password scheme")
	}

	handler := router.SetupRouter(router.Dependencies{
		Config:   cfg,
		Shops:    shops,
		Users:    users,
		Password: encoder,
		Logger:   log,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}

// openStores connects the configured backend and, when REDIS_ADDR is set,
// puts the shop cache in front of it.
func openStores(ctx context.Context, cfg config.Config, log zerolog.Logger) (repository.ShopRepository, repository.UserRepository, func(), error) {
	var (
		shops   repository.ShopRepository
		users   repository.UserRepository
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, database, err := db.InitMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = client.Disconnect(context.Background()) })
		if err := db.EnsureIndexes(ctx, database, log); err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		shops = repository.NewMongoShopRepository(database)
		users = repository.NewMongoUserRepository(database)

	case config.BackendMySQL:
		database, err := db.InitDB(ctx, cfg.DBUrl, log)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, func() { database.Close() })
		if err := db.RunMigrations(ctx, database, log); err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		shops = repository.NewMySQLShopRepository(database, log)
		users = repository.NewMySQLUserRepository(database, log)

	case config.BackendMemory:
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		shops = repository.NewMemoryShopRepository()
		users = repository.NewMemoryUserRepository()

	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	if cfg.RedisAddr != "" {
		redisClient, err := db.InitRedis(ctx, cfg.RedisAddr, log)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, shop cache disabled")
		} else {
			closers = append(closers, func() { redisClient.Close() })
			shops = repository.NewCachedShopRepository(shops, redisClient, cfg.CacheTTL, log)
		}
	}

	return shops, users, closeAll, nil
}
