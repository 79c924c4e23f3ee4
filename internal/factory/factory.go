package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/slotmachine-go/internal/db"
	"github.com/mcoot/slotmachine-go/internal/dependencies/clock"
	"github.com/mcoot/slotmachine-go/internal/dependencies/idgen"
	"github.com/mcoot/slotmachine-go/internal/metrics"
	"github.com/mcoot/slotmachine-go/internal/services/cooldown"
	"github.com/mcoot/slotmachine-go/internal/services/recorder"
	"github.com/mcoot/slotmachine-go/internal/services/registry"
	"github.com/mcoot/slotmachine-go/internal/services/reporting"
	"github.com/mcoot/slotmachine-go/internal/storage"
	"github.com/mcoot/slotmachine-go/internal/storage/memory"
	pgstorage "github.com/mcoot/slotmachine-go/internal/storage/postgres"
	redisstorage "github.com/mcoot/slotmachine-go/internal/storage/redis"
	sqlitestorage "github.com/mcoot/slotmachine-go/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock   clock.Clock
	IDs     idgen.Generator
	Metrics *metrics.Recorder

	// Services
	Registry  *registry.Service
	Cooldown  *cooldown.Service
	Recorder  *recorder.Service
	Reporting *reporting.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Metrics receives domain counters (optional)
	Metrics *metrics.Recorder
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (used if StorageType is "sqlite")
	SQLitePath string
	// PostgresDSN is the connection string (required if StorageType is "postgres")
	PostgresDSN string
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("storage ready", slog.String("type", storageTypeOrDefault(cfg.StorageType)))

	return newWithDependencies(store, clock.New(), idgen.New(), cfg.Metrics, logger), nil
}

func storageTypeOrDefault(t string) string {
	if t == "" {
		return StorageTypeMemory
	}
	return t
}

func newStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	switch storageTypeOrDefault(cfg.StorageType) {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		conn, err := db.Open(ctx, db.Config{Path: cfg.SQLitePath})
		if err != nil {
			return nil, err
		}
		return sqlitestorage.New(conn), nil
	case StorageTypePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("PostgresDSN required when StorageType is postgres")
		}
		return pgstorage.New(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be one of memory, redis, sqlite, postgres", cfg.StorageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	ids idgen.Generator,
	rec *metrics.Recorder,
	logger *slog.Logger,
) *App {
	return &App{
		Storage:   store,
		Clock:     clk,
		IDs:       ids,
		Metrics:   rec,
		Registry:  registry.New(store, clk, ids, rec, logger.With(slog.String("service", "registry"))),
		Cooldown:  cooldown.New(store, clk, ids, rec, logger.With(slog.String("service", "cooldown"))),
		Recorder:  recorder.New(store, clk, ids, rec, logger.With(slog.String("service", "recorder"))),
		Reporting: reporting.New(store, clk, logger.With(slog.String("service", "reporting"))),
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
