package services

import (
	"context"

	"notebook/internal/notebook/domain/services"
)

// SessionService - источник доверенной личности текущего пользователя.
type SessionService interface {
	Create(ctx context.Context, userID string) (*services.Session, error)

	// Resolve возвращает ID пользователя по токену сессии.
	Resolve(ctx context.Context, token string) (string, error)

	Destroy(ctx context.Context, token string) error

	// RevokeUser завершает все сессии пользователя.
	RevokeUser(ctx context.Context, userID string) error
}
