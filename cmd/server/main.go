package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jpmelanson/turnbase/internal/api"
	"github.com/jpmelanson/turnbase/internal/factory"
	"github.com/jpmelanson/turnbase/internal/services/game"
	redisstorage "github.com/jpmelanson/turnbase/internal/storage/redis"
)

// serverEnv holds raw environment configuration
type serverEnv struct {
	Host        string        `env:"TURNBASE_HOST" envDefault:""`
	Port        int           `env:"TURNBASE_PORT" envDefault:"8080"`
	StorageType string        `env:"TURNBASE_STORAGE" envDefault:"memory"`
	RedisURL    string        `env:"TURNBASE_REDIS_URL"`
	TokenSecret string        `env:"TURNBASE_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"TURNBASE_TOKEN_TTL" envDefault:"0"`
	TurnPolicy  string        `env:"TURNBASE_TURN_POLICY" envDefault:"rotate"`
}

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var envCfg serverEnv
	if err := env.Parse(&envCfg); err != nil {
		logger.Error("failed to parse environment", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if envCfg.TokenSecret == "" {
		logger.Error("TURNBASE_TOKEN_SECRET is required")
		os.Exit(1)
	}

	policy := game.TurnPolicy(envCfg.TurnPolicy)
	if !policy.Valid() {
		logger.Error("invalid TURNBASE_TURN_POLICY: must be 'hold' or 'rotate'",
			slog.String("value", envCfg.TurnPolicy))
		os.Exit(1)
	}

	cfg := factory.Config{
		TokenSecret: envCfg.TokenSecret,
		TokenTTL:    envCfg.TokenTTL,
		TurnPolicy:  policy,
		Logger:      logger,
		StorageType: envCfg.StorageType,
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		if envCfg.RedisURL == "" {
			logger.Error("TURNBASE_REDIS_URL required when TURNBASE_STORAGE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = envCfg.RedisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Verifier:    app.Verifier,
		AuthService: app.AuthService,
		Coordinator: app.Coordinator,
		Registry:    app.Registry,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = envCfg.Host
	serverConfig.Port = envCfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		app.Registry.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
