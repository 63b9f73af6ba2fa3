package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"notebook/pkg/logger"
)

const (
	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
	ErrReadMigrationVersion    = "failed to read migration version"
	logCloseMigrations         = "failed to close migration instance"
)

// Ошибки применения миграций.
var (
	ErrMigrationsNotFound = errors.New("migrations directory not found")
	ErrDirtyDatabase      = errors.New("database is in a dirty migration state")
)

// Migrate применяет миграции из каталога dir к базе dsn и возвращает версию схемы.
// Относительный dir разрешается от рабочего каталога.
func Migrate(ctx context.Context, dsn, dir string) (uint, error) {
	sourceURL, err := migrationsSource(dir)
	if err != nil {
		return 0, err
	}
	log := logger.Log(ctx).With(zap.String("source", sourceURL))

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn(ctx, logCloseMigrations,
				zap.NamedError("source_error", srcErr), zap.NamedError("db_error", dbErr))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		version = 0
	case err != nil:
		return 0, fmt.Errorf("%s: %w", ErrReadMigrationVersion, err)
	case dirty:
		return version, fmt.Errorf("%w: version %d", ErrDirtyDatabase, version)
	}

	log.Info(ctx, LogMigrationsApplied, zap.Uint("version", version))
	return version, nil
}

// migrationsSource проверяет каталог миграций и строит URL источника file://.
func migrationsSource(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrMigrationsNotFound, dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrMigrationsNotFound, abs)
	}
	return "file://" + filepath.ToSlash(abs), nil
}
