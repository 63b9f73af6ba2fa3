// Package main реализует точку входа веб-приложения notebook.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notebook/internal/notebook/adapters/filepool"
	httpadapter "notebook/internal/notebook/adapters/http"
	"notebook/internal/notebook/adapters/services"
	"notebook/internal/notebook/adapters/session"
	"notebook/internal/notebook/app"
	"notebook/internal/notebook/config"
	"notebook/internal/notebook/db"
	"notebook/internal/notebook/ports/storage"
	redisdb "notebook/pkg/db/redis"
	"notebook/pkg/logger"
	"notebook/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTEBOOK_LOG_MODE"
	EnvLoggerLevel = "NOTEBOOK_LOG_LEVEL"
	EnvConfigPath  = "NOTEBOOK_CONFIG"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitFilePool         = "failed to initialize file pool"
	ErrInitRedis            = "failed to connect to redis"
	ErrInitSessions         = "failed to initialize session service"
	ErrEnsureAdmin          = "failed to ensure admin user"
	ErrStartHTTP            = "HTTP server stopped unexpectedly"
	ErrCloseRedis           = "failed to close redis client"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "notebook service started"
	LogServiceShutdownDone = "notebook service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingRedis        = "closing redis client"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitFilePool        = "initializing file pool"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitHandlers        = "initializing HTTP handlers"
	LogStartingHTTP        = "starting HTTP server"
)

func main() {
	configPath := flag.String("config", os.Getenv(EnvConfigPath), "path to YAML configuration file")
	flag.Parse()

	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx, *configPath)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		database, err := db.New(ctx, &cfg.Storage, &cfg.Postgres)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}
		defer func() {
			log.Info(ctx, LogClosingDB)
			database.Close(ctx)
		}()

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitFilePool, zap.String("driver", cfg.FilePool.Driver))
		pool, err := newFilePool(ctx, &cfg.FilePool)
		if err != nil {
			log.Error(ctx, ErrInitFilePool, zap.Error(err))
			exitCode = 1
			return
		}

		redisClient, err := redisdb.NewClient(ctx, redisdb.Config{
			Addr:           cfg.Redis.GetAddress(),
			Password:       cfg.Redis.Password,
			DB:             cfg.Redis.DB,
			PoolSize:       cfg.Redis.PoolSize,
			MinIdle:        cfg.Redis.MinIdle,
			ConnectTimeout: cfg.Redis.ConnectTimeout,
			ReadTimeout:    cfg.Redis.ReadTimeout,
			WriteTimeout:   cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.Error(ctx, ErrInitRedis, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitServices)
		sessions, err := session.New(redisClient, cfg.Session.Secret, cfg.Session.TTL)
		if err != nil {
			log.Error(ctx, ErrInitSessions, zap.Error(err))
			_ = redisClient.Close()
			exitCode = 1
			return
		}
		serviceFactory := services.NewServiceFactory(cfg.Admin.BcryptCost)

		log.Info(ctx, LogInitUseCases)
		owners := app.NewOwnershipResolver(database.NoteRepository(), database.ImageRepository())
		authUseCase := app.NewAuthUseCase(database.UserRepository(), serviceFactory.PasswordService())
		noteUseCase := app.NewNoteUseCase(database.NoteRepository(), owners, serviceFactory.IdentityService(), time.Now)
		imageUseCase := app.NewImageUseCase(database.ImageRepository(), pool, owners, serviceFactory.IdentityService(), time.Now)
		cascade := app.NewCascadeCoordinator(
			database.UserRepository(),
			database.NoteRepository(),
			database.ImageRepository(),
			pool,
			sessions,
		)

		if err := authUseCase.EnsureAdmin(ctx, cfg.Admin.Password); err != nil {
			log.Error(ctx, ErrEnsureAdmin, zap.Error(err))
			_ = redisClient.Close()
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitHandlers)
		handler := httpadapter.NewHandler(authUseCase, cascade, noteUseCase, imageUseCase, sessions, httpadapter.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.Secure,
		})

		server := httpadapter.NewApp(httpadapter.ServerConfig{BodyLimit: cfg.HTTP.BodyLimit}, fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		})
		httpadapter.SetupRouter(server, handler, sessions, cfg.Session.CookieName)

		serverCtx, stopServer := context.WithCancel(ctx)
		defer stopServer()

		listenErr := make(chan error, 1)
		go func() {
			log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
			if err := server.Listen(cfg.HTTP.GetAddress(), fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
				listenErr <- err
				stopServer()
			}
		}()

		shutdown.Wait(serverCtx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return server.ShutdownWithContext(ctx)
			},
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingRedis)
				if err := redisClient.Close(); err != nil {
					return fmt.Errorf("%s: %w", ErrCloseRedis, err)
				}
				return nil
			},
		)

		select {
		case err := <-listenErr:
			log.Error(ctx, ErrStartHTTP, zap.Error(err))
			exitCode = 1
		default:
		}

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

var errUnknownFilePool = errors.New("unknown file pool driver")

// newFilePool создает пул файлов, выбранный конфигурацией.
func newFilePool(ctx context.Context, cfg *config.FilePoolConfig) (storage.FilePool, error) {
	switch cfg.Driver {
	case config.FilePoolLocal:
		local, err := filepool.NewLocal(ctx, cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		return local, nil
	case config.FilePoolS3:
		client, err := filepool.NewS3Client(ctx, filepool.S3Options{
			Endpoint:     cfg.S3.Endpoint,
			Region:       cfg.S3.Region,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			Bucket:       cfg.S3.Bucket,
			KeyPrefix:    cfg.S3.KeyPrefix,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return filepool.NewS3(client, cfg.S3.Bucket, cfg.S3.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFilePool, cfg.Driver)
	}
}
