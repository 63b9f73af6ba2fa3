package api

import (
	"context"

	"notebook/internal/notebook/domain/entities"
)

// NoteUseCase - операции с заметками.
type NoteUseCase interface {
	WriteNote(ctx context.Context, ownerID, content string) (string, error)

	DeleteNote(ctx context.Context, requesterID, noteID string) error

	ListNotes(ctx context.Context, ownerID string) ([]*entities.Note, error)
}
