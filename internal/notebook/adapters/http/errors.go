package http

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notebook/internal/notebook/domain/entities"
	"notebook/internal/notebook/domain/services"
	"notebook/internal/notebook/ports/storage"
	"notebook/pkg/logger"
)

// Сообщения об ошибках для клиента.
const (
	MsgUnauthorized      = "unauthorized"
	MsgForbidden         = "forbidden"
	MsgDuplicateUser     = "user ID already exists"
	MsgInvalidUserID     = "user ID must not be empty or contain spaces or apostrophes"
	MsgInvalidExtension  = "only png, jpg, jpeg and gif images are allowed"
	MsgEmptyUpload       = "no file selected"
	MsgInvalidPassword   = "password must not be empty or longer than 72 bytes"
	MsgNotFound          = "not found"
	MsgMethodNotAllowed  = "method not allowed"
	MsgEntityTooLarge    = "file exceeds the maximum allowed size"
	MsgInternal          = "internal server error"
	LogRequestFailed     = "request failed"
	LogSendErrorResponse = "failed to send error response"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{services.ErrUnauthorized, fiber.StatusUnauthorized, MsgUnauthorized},
	{services.ErrInvalidSession, fiber.StatusUnauthorized, MsgUnauthorized},
	{services.ErrSessionExpired, fiber.StatusUnauthorized, MsgUnauthorized},
	{services.ErrForbidden, fiber.StatusForbidden, MsgForbidden},
	{services.ErrDuplicateUser, fiber.StatusConflict, MsgDuplicateUser},
	{services.ErrInvalidUserID, fiber.StatusBadRequest, MsgInvalidUserID},
	{services.ErrInvalidExtension, fiber.StatusBadRequest, MsgInvalidExtension},
	{services.ErrEmptyUpload, fiber.StatusBadRequest, MsgEmptyUpload},
	{services.ErrInvalidPassword, fiber.StatusBadRequest, MsgInvalidPassword},
	{entities.ErrImageNotFound, fiber.StatusNotFound, MsgNotFound},
	{storage.ErrFileNotFound, fiber.StatusNotFound, MsgNotFound},
}

// StatusFor сопоставляет ошибку HTTP статусу и сообщению для клиента.
func StatusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.message
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return fiberErr.Code, MsgNotFound
		case fiber.StatusMethodNotAllowed:
			return fiberErr.Code, MsgMethodNotAllowed
		case fiber.StatusRequestEntityTooLarge:
			return fiberErr.Code, MsgEntityTooLarge
		default:
			return fiberErr.Code, fiberErr.Message
		}
	}

	return fiber.StatusInternalServerError, MsgInternal
}

// ErrorHandler отвечает JSON с полем error и статусом из StatusFor.
func ErrorHandler(c fiber.Ctx, err error) error {
	ctx := requestContext(c)
	status, message := StatusFor(err)

	log := logger.Log(ctx).With(zap.Int("status", status), zap.String("path", c.Path()))
	if status >= fiber.StatusInternalServerError {
		log.Error(ctx, LogRequestFailed, zap.Error(err))
	} else {
		log.Debug(ctx, LogRequestFailed, zap.Error(err))
	}

	if sendErr := c.Status(status).JSON(fiber.Map{"error": message}); sendErr != nil {
		log.Error(ctx, LogSendErrorResponse, zap.Error(sendErr))
		return sendErr
	}
	return nil
}
