// Package db открывает хранилище записей, выбранное конфигурацией: SQLite или Postgres.
package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notebook/internal/notebook/adapters/postgres"
	"notebook/internal/notebook/adapters/sqlite"
	"notebook/internal/notebook/config"
	"notebook/internal/notebook/ports/repositories"
	pgdb "notebook/pkg/db/postgres"
	"notebook/pkg/logger"
)

// Константы для сообщений логгера.
const (
	LogDBInitializing    = "initializing notebook database"
	LogDBInitialized     = "notebook database initialized successfully"
	LogMigrationStarting = "starting database migrations"
)

// Константы для сообщений об ошибках.
const (
	ErrDBInit       = "failed to initialize notebook database"
	ErrDBMigrations = "failed to apply notebook database migrations"
	ErrDBConnection = "failed to connect to notebook database"
)

// Repositories - набор репозиториев одного хранилища.
type Repositories interface {
	UserRepository() repositories.UserRepository
	NoteRepository() repositories.NoteRepository
	ImageRepository() repositories.ImageRepository
}

// DB - открытое хранилище записей.
type DB struct {
	Repositories
	closeFn func(ctx context.Context)
	pingFn  func(ctx context.Context) error
}

// New открывает хранилище, указанное в cfg.Storage.Driver, и применяет миграции.
func New(ctx context.Context, storage *config.StorageConfig, pg *config.PostgresConfig) (*DB, error) {
	log := logger.Log(ctx).With(zap.String("driver", storage.Driver))
	log.Info(ctx, LogDBInitializing)

	var (
		db  *DB
		err error
	)
	switch storage.Driver {
	case config.StorageSQLite:
		db, err = openSQLite(ctx, storage.SQLitePath)
	case config.StoragePostgres:
		db, err = openPostgres(ctx, pg)
	default:
		err = fmt.Errorf("%w: %q", config.ErrUnknownStorageDriver, storage.Driver)
	}
	if err != nil {
		log.Error(ctx, ErrDBInit, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrDBInit, err)
	}

	log.Info(ctx, LogDBInitialized)
	return db, nil
}

func openSQLite(ctx context.Context, path string) (*DB, error) {
	store, err := sqlite.NewStore(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	return &DB{
		Repositories: store,
		closeFn: func(ctx context.Context) {
			if err := store.Close(); err != nil {
				logger.Log(ctx).Warn(ctx, "failed to close sqlite store", zap.Error(err))
			}
		},
		pingFn: store.Ping,
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.PostgresConfig) (*DB, error) {
	log := logger.Log(ctx)
	log.Info(ctx, "connecting to postgres",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	log.Info(ctx, LogMigrationStarting, zap.String("migrations_path", cfg.MigrationsPath))
	version, err := pgdb.Migrate(ctx, cfg.GetConnectionURL(), cfg.MigrationsPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}
	log.Info(ctx, LogDBInitialized, zap.Uint("schema_version", version))

	database, err := pgdb.New(ctx, pgdb.Options{
		DSN:             cfg.GetDSN(),
		MinConns:        cfg.MinConn,
		MaxConns:        cfg.MaxConn,
		MaxConnLifetime: cfg.MaxConnLifetime,
		MaxConnIdleTime: cfg.MaxConnIdleTime,
		ConnectTimeout:  cfg.ConnectTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	return &DB{
		Repositories: postgres.NewRepositoryFactory(database.Pool()),
		closeFn:      database.Close,
		pingFn:       database.Ping,
	}, nil
}

// Ping проверяет доступность хранилища.
func (db *DB) Ping(ctx context.Context) error {
	return db.pingFn(ctx)
}

// Close закрывает хранилище.
func (db *DB) Close(ctx context.Context) {
	db.closeFn(ctx)
}
