package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/mastermind-go/internal/dependencies/clock"
	"github.com/mcoot/mastermind-go/internal/dependencies/random"
	"github.com/mcoot/mastermind-go/internal/services/game"
	"github.com/mcoot/mastermind-go/internal/services/roster"
	"github.com/mcoot/mastermind-go/internal/services/scoring"
	"github.com/mcoot/mastermind-go/internal/services/secret"
	"github.com/mcoot/mastermind-go/internal/services/settings"
	"github.com/mcoot/mastermind-go/internal/storage"
	"github.com/mcoot/mastermind-go/internal/storage/memory"
	redisstorage "github.com/mcoot/mastermind-go/internal/storage/redis"
	sqlitestorage "github.com/mcoot/mastermind-go/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	ScoringService  *scoring.Service
	SecretGenerator *secret.Generator
	RosterService   *roster.Service
	SettingsService *settings.Service
	GameController  *game.Controller

	closer io.Closer
}

// Close releases the storage backend, if it holds any resources
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var (
		store  storage.Storage
		closer io.Closer
	)
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
		store, closer = redisStore, redisStore
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlitestorage.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store, closer = sqliteStore, sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	logger.Info("storage ready", slog.String("type", storageType))

	app := newWithDependencies(store, clock.New(), random.New(), logger)
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	scoringService := scoring.New()
	secretGenerator := secret.New(rnd)
	rosterService := roster.New(store, logger)
	settingsService := settings.New(store, logger)
	gameController := game.NewController(store, rosterService, scoringService, secretGenerator, clk, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		ScoringService:  scoringService,
		SecretGenerator: secretGenerator,
		RosterService:   rosterService,
		SettingsService: settingsService,
		GameController:  gameController,
	}
}
