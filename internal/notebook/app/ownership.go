// Package app содержит бизнес-логику: учетные записи, заметки, изображения и каскадное удаление.
package app

import (
	"context"
	"time"

	"notebook/internal/notebook/ports/repositories"
)

// Clock возвращает текущее время; подменяется в тестах.
type Clock func() time.Time

// OwnershipResolver определяет владельца ресурса по его идентификатору.
type OwnershipResolver struct {
	notes  repositories.NoteRepository
	images repositories.ImageRepository
}

// NewOwnershipResolver создает резолвер владельцев.
func NewOwnershipResolver(notes repositories.NoteRepository, images repositories.ImageRepository) *OwnershipResolver {
	return &OwnershipResolver{notes: notes, images: images}
}

// OwnerOfNote возвращает владельца заметки или entities.ErrNoteNotFound.
func (r *OwnershipResolver) OwnerOfNote(ctx context.Context, noteID string) (string, error) {
	note, err := r.notes.FindByID(ctx, noteID)
	if err != nil {
		return "", err
	}
	return note.Owner, nil
}

// OwnerOfImage возвращает владельца изображения или entities.ErrImageNotFound.
func (r *OwnershipResolver) OwnerOfImage(ctx context.Context, uid string) (string, error) {
	image, err := r.images.FindByUID(ctx, uid)
	if err != nil {
		return "", err
	}
	return image.Owner, nil
}
