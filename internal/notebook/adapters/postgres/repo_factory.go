// Package postgres реализует хранилище записей на PostgreSQL.
// Все запросы параметризованы.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"notebook/internal/notebook/ports/repositories"
)

// PgxPoolInterface - подмножество pgxpool.Pool, используемое репозиториями.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

// RepositoryFactory создает репозитории поверх одного пула.
type RepositoryFactory struct {
	userRepo  repositories.UserRepository
	noteRepo  repositories.NoteRepository
	imageRepo repositories.ImageRepository
}

// NewRepositoryFactory создает фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{
		userRepo:  NewUserRepository(pool),
		noteRepo:  NewNoteRepository(pool),
		imageRepo: NewImageRepository(pool),
	}
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.userRepo
}

// NoteRepository возвращает репозиторий заметок.
func (f *RepositoryFactory) NoteRepository() repositories.NoteRepository {
	return f.noteRepo
}

// ImageRepository возвращает репозиторий изображений.
func (f *RepositoryFactory) ImageRepository() repositories.ImageRepository {
	return f.imageRepo
}
