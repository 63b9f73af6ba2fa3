// Package postgres предоставляет пул соединений с Postgres и применение миграций.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"notebook/pkg/logger"
)

const (
	LogConnecting        = "connecting to Postgres database"
	LogConnected         = "successfully connected to Postgres"
	LogClosing           = "closing Postgres connection pool"
	LogMigrationsApplied = "database migrations successfully applied"
)

const (
	ErrParseConfig  = "failed to parse connection config"
	ErrCreatePool   = "failed to create connection pool"
	ErrPingDatabase = "failed to ping database"
)

// ErrInvalidPoolSize возвращается, когда MinConns больше MaxConns.
var ErrInvalidPoolSize = errors.New("min connections exceed max connections")

// Options - параметры пула. Нулевые значения оставляют умолчания pgxpool.
type Options struct {
	DSN             string
	MinConns        int
	MaxConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

func (o Options) apply(cfg *pgxpool.Config) error {
	if o.MinConns < 0 || o.MaxConns < 0 || (o.MaxConns > 0 && o.MinConns > o.MaxConns) {
		return fmt.Errorf("%w: min=%d max=%d", ErrInvalidPoolSize, o.MinConns, o.MaxConns)
	}
	if o.MinConns > 0 {
		cfg.MinConns = int32(o.MinConns) //nolint:gosec
	}
	if o.MaxConns > 0 {
		cfg.MaxConns = int32(o.MaxConns) //nolint:gosec
	}
	if o.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = o.MaxConnLifetime
	}
	if o.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = o.MaxConnIdleTime
	}
	if o.ConnectTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = o.ConnectTimeout
	}
	return nil
}

// Database владеет пулом соединений с Postgres.
type Database struct {
	pool        *pgxpool.Pool
	pingTimeout time.Duration
}

// New открывает пул и проверяет соединение не дольше opts.ConnectTimeout.
func New(ctx context.Context, opts Options) (*Database, error) {
	log := logger.Log(ctx).With(zap.Int("min_conn", opts.MinConns), zap.Int("max_conn", opts.MaxConns))
	log.Info(ctx, LogConnecting)

	poolCfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		log.Error(ctx, ErrParseConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrParseConfig, err)
	}
	if err := opts.apply(poolCfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrParseConfig, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error(ctx, ErrCreatePool, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCreatePool, err)
	}

	db := &Database{pool: pool, pingTimeout: opts.ConnectTimeout}
	if err := db.Ping(ctx); err != nil {
		pool.Close()
		log.Error(ctx, ErrPingDatabase, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrPingDatabase, err)
	}

	log.Info(ctx, LogConnected)
	return db, nil
}

func (db *Database) Pool() *pgxpool.Pool {
	return db.pool
}

// Close закрывает пул.
func (db *Database) Close(ctx context.Context) {
	stat := db.pool.Stat()
	logger.Log(ctx).Info(ctx, LogClosing,
		zap.Int32("acquired_conns", stat.AcquiredConns()),
		zap.Int32("total_conns", stat.TotalConns()))
	db.pool.Close()
}

// Ping проверяет доступность базы.
func (db *Database) Ping(ctx context.Context) error {
	if db.pingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, db.pingTimeout)
		defer cancel()
	}
	return db.pool.Ping(ctx)
}
