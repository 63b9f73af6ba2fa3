package http

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notebook/internal/notebook/domain/entities"
	"notebook/internal/notebook/domain/services"
	svc "notebook/internal/notebook/ports/services"
	"notebook/pkg/logger"
)

const (
	localRequestContext = "requestContext"
	localUserID         = "userID"
	localToken          = "sessionToken"

	headerRequestID = "X-Request-ID"
	bearerPrefix    = "Bearer "
)

// requestContext возвращает контекст запроса с request id, либо контекст fiber.
func requestContext(c fiber.Ctx) context.Context {
	if ctx, ok := c.Locals(localRequestContext).(context.Context); ok {
		return ctx
	}
	return c.Context()
}

// currentUser возвращает ID вошедшего пользователя или пустую строку.
func currentUser(c fiber.Ctx) string {
	userID, _ := c.Locals(localUserID).(string)
	return userID
}

// NewRequestIDMiddleware присваивает запросу request id и кладет его в контекст логгера.
func NewRequestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		requestID := logger.SanitizeRequestID(c.Get(headerRequestID))
		c.Set(headerRequestID, requestID)
		c.Locals(localRequestContext, logger.NewRequestIDContext(c.Context(), requestID))
		return c.Next()
	}
}

// NewLoggerMiddleware логирует начало и завершение запроса.
func NewLoggerMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx := requestContext(c)
		start := time.Now()

		log := logger.Log(ctx).With(
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.String("ip", c.IP()),
		)
		log.Debug(ctx, "request started")

		err := c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			log.Info(ctx, "request completed with error", append(fields, zap.Error(err))...)
			return err
		}

		log.Info(ctx, "request completed", fields...)
		return nil
	}
}

// NewRecoveryMiddleware превращает панику обработчика в ответ 500.
func NewRecoveryMiddleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				ctx := requestContext(c)
				logger.Log(ctx).Error(ctx, "server panic",
					zap.String("error", fmt.Sprintf("%v", r)),
					zap.String("stack", string(debug.Stack())),
				)
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return c.Next()
	}
}

// NewSessionMiddleware определяет текущего пользователя по cookie или заголовку Authorization.
// Недействительная или истекшая сессия не прерывает запрос: пользователь считается анонимным.
// Прочие ошибки хранилища сессий возвращаются как есть.
func NewSessionMiddleware(sessions svc.SessionService, cookieName string) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, bearerPrefix) {
				token = strings.TrimPrefix(h, bearerPrefix)
			}
		}
		if token == "" {
			return c.Next()
		}

		ctx := requestContext(c)
		userID, err := sessions.Resolve(ctx, token)
		if err != nil {
			if errors.Is(err, services.ErrInvalidSession) || errors.Is(err, services.ErrSessionExpired) {
				logger.Log(ctx).Debug(ctx, "session rejected", zap.Error(err))
				return c.Next()
			}
			return err
		}

		c.Locals(localUserID, userID)
		c.Locals(localToken, token)
		return c.Next()
	}
}

// RequireUser пропускает только вошедших пользователей.
func RequireUser() fiber.Handler {
	return func(c fiber.Ctx) error {
		if currentUser(c) == "" {
			return errUnauthorized
		}
		return c.Next()
	}
}

// RequireAdmin пропускает только ADMIN.
func RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !entities.IsAdmin(currentUser(c)) {
			return errUnauthorized
		}
		return c.Next()
	}
}
