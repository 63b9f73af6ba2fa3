// Package config содержит конфигурацию сервиса notebook.
package config

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	pkgconfig "notebook/pkg/config"
	"notebook/pkg/logger"
)

const (
	serviceName         = "notebook"
	ErrFailedLoadConfig = "failed to load notebook configuration"
	ErrInvalidConfig    = "invalid notebook configuration"
	LogConfigSummary    = "notebook configuration"
)

// Ошибки валидации конфигурации.
var (
	ErrUnknownStorageDriver  = errors.New("unknown storage driver")
	ErrUnknownFilePoolDriver = errors.New("unknown file pool driver")
	ErrMissingBucket         = errors.New("s3 bucket is required")
	ErrMissingSessionSecret  = errors.New("session secret is required")
)

// Config представляет полную конфигурацию сервиса.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Postgres PostgresConfig `yaml:"postgres"`
	FilePool FilePoolConfig `yaml:"file_pool"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	HTTP     HTTPConfig     `yaml:"http"`
	Admin    AdminConfig    `yaml:"admin"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load читает конфигурацию из окружения или файла path и проверяет ее.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, serviceName, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		logger.Log(ctx).Error(ctx, ErrInvalidConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrInvalidConfig, err)
	}

	logger.Log(ctx).Info(ctx, LogConfigSummary,
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("file_pool_driver", cfg.FilePool.Driver),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("redis_address", cfg.Redis.GetAddress()),
		zap.Duration("session_ttl", cfg.Session.TTL),
		zap.String("log_level", cfg.Logging.Level),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return cfg, nil
}

// Validate проверяет согласованность разделов.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageSQLite, StoragePostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, c.Storage.Driver)
	}

	switch c.FilePool.Driver {
	case FilePoolLocal:
	case FilePoolS3:
		if c.FilePool.S3.Bucket == "" {
			return ErrMissingBucket
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFilePoolDriver, c.FilePool.Driver)
	}

	if c.Session.Secret == "" {
		return ErrMissingSessionSecret
	}
	return nil
}
