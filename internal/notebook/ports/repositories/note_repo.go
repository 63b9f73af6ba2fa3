package repositories

import (
	"context"

	"notebook/internal/notebook/domain/entities"
)

// NoteRepository - таблица заметок.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) error

	// FindByID возвращает entities.ErrNoteNotFound, если заметки нет.
	FindByID(ctx context.Context, noteID string) (*entities.Note, error)

	ListByOwner(ctx context.Context, owner string) ([]*entities.Note, error)

	Delete(ctx context.Context, noteID string) error

	// DeleteByOwner удаляет все заметки владельца и возвращает их количество.
	DeleteByOwner(ctx context.Context, owner string) (int64, error)
}
