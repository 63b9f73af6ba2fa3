// Package repositories определяет порты хранилища записей: пользователи, заметки, изображения.
// Хранилища независимы, ссылочная целостность между ними не обеспечивается.
package repositories

import (
	"context"

	"notebook/internal/notebook/domain/entities"
)

// UserRepository - таблица пользователей.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error

	// FindByID возвращает entities.ErrUserNotFound, если пользователя нет.
	FindByID(ctx context.Context, id string) (*entities.User, error)

	List(ctx context.Context) ([]*entities.User, error)

	UpdatePasswordHash(ctx context.Context, id, hash string) error

	// Delete не считает отсутствие записи ошибкой.
	Delete(ctx context.Context, id string) error
}
