package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/jpmelanson/turnbase/internal/broadcast"
	"github.com/jpmelanson/turnbase/internal/dependencies/clock"
	"github.com/jpmelanson/turnbase/internal/dependencies/random"
	"github.com/jpmelanson/turnbase/internal/services/auth"
	"github.com/jpmelanson/turnbase/internal/services/game"
	"github.com/jpmelanson/turnbase/internal/storage"
	"github.com/jpmelanson/turnbase/internal/storage/memory"
	redisstorage "github.com/jpmelanson/turnbase/internal/storage/redis"
	"github.com/jpmelanson/turnbase/internal/token"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Credential handling
	Issuer   *token.Issuer
	Verifier *token.Verifier

	// Services
	AuthService *auth.Service
	Coordinator *game.Coordinator
	Registry    *broadcast.Registry
}

// Config holds configuration for the application factory
type Config struct {
	// TokenSecret signs and verifies credentials (required)
	TokenSecret string
	// TokenTTL bounds credential lifetime; zero issues non-expiring credentials
	TokenTTL time.Duration
	// TurnPolicy selects what happens to the turn after an accepted move
	// If empty, defaults to rotate
	TurnPolicy game.TurnPolicy
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	if cfg.TokenSecret == "" {
		return nil, errors.New("TokenSecret is required")
	}

	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	secret := []byte(cfg.TokenSecret)
	issuer := token.NewIssuer(secret, clk, cfg.TokenTTL)
	verifier := token.NewVerifier(secret)

	registry := broadcast.NewRegistry(logger)
	authService := auth.New(store, issuer, clk, rnd, logger)
	coordinator := game.NewCoordinator(store, registry, cfg.TurnPolicy, clk, rnd, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Issuer:      issuer,
		Verifier:    verifier,
		AuthService: authService,
		Coordinator: coordinator,
		Registry:    registry,
	}
}
