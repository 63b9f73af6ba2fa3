// Package api определяет основные порты бизнес-логики для слоя запросов.
package api

import (
	"context"

	"notebook/internal/notebook/domain/entities"
)

// AuthUseCase - аутентификация и управление учетными записями.
type AuthUseCase interface {
	Authenticate(ctx context.Context, userID, password string) (bool, error)

	CreateUser(ctx context.Context, requesterID, userID, password string) error

	ListUsers(ctx context.Context, requesterID string) ([]*entities.User, error)

	EnsureAdmin(ctx context.Context, password string) error
}

// UserDeleter - каскадное удаление пользователя.
type UserDeleter interface {
	DeleteUser(ctx context.Context, requesterID, targetID string) error
}
