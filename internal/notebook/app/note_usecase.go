package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"notebook/internal/notebook/domain/entities"
	"notebook/internal/notebook/domain/services"
	"notebook/internal/notebook/ports/api"
	"notebook/internal/notebook/ports/repositories"
	svc "notebook/internal/notebook/ports/services"
	"notebook/pkg/logger"
)

const (
	msgNoteCreated       = "note created"
	msgNoteDeleted       = "note deleted"
	msgNoteMissing       = "note to delete does not exist"
	msgNoteNotOwned      = "attempt to delete note owned by another user"
	errCtxCreatingNote   = "creating note"
	errCtxResolvingOwner = "resolving owner"
	errCtxDeletingNote   = "deleting note"
	errCtxListingNotes   = "listing notes"
)

// NoteUseCaseImpl реализует api.NoteUseCase.
type NoteUseCaseImpl struct {
	noteRepo repositories.NoteRepository
	owners   *OwnershipResolver
	identity svc.IdentityService
	now      Clock
}

// NewNoteUseCase создает сервис заметок.
func NewNoteUseCase(
	noteRepo repositories.NoteRepository,
	owners *OwnershipResolver,
	identity svc.IdentityService,
	now Clock,
) api.NoteUseCase {
	if now == nil {
		now = time.Now
	}
	return &NoteUseCaseImpl{noteRepo: noteRepo, owners: owners, identity: identity, now: now}
}

// WriteNote сохраняет заметку от имени ownerID и возвращает ее ID.
func (n *NoteUseCaseImpl) WriteNote(ctx context.Context, ownerID, content string) (string, error) {
	ownerID = entities.NormalizeUserID(ownerID)
	if ownerID == "" {
		return "", services.ErrUnauthorized
	}

	ts := n.now().UTC()
	note := &entities.Note{
		ID:        n.identity.DeriveRecordID(ownerID, ts, content),
		Owner:     ownerID,
		Timestamp: ts,
		Content:   content,
	}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		return "", fmt.Errorf("%s: %w", errCtxCreatingNote, err)
	}

	logger.Log(ctx).Info(ctx, msgNoteCreated, zap.String("owner", ownerID), zap.String("noteID", note.ID))
	return note.ID, nil
}

// DeleteNote удаляет заметку, если requesterID ее владелец. Отсутствующая заметка не ошибка.
func (n *NoteUseCaseImpl) DeleteNote(ctx context.Context, requesterID, noteID string) error {
	requesterID = entities.NormalizeUserID(requesterID)
	log := logger.Log(ctx).With(zap.String("method", "DeleteNote"), zap.String("noteID", noteID))

	owner, err := n.owners.OwnerOfNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			log.Debug(ctx, msgNoteMissing)
			return nil
		}
		return fmt.Errorf("%s: %w", errCtxResolvingOwner, err)
	}
	if requesterID == "" || owner != requesterID {
		log.Warn(ctx, msgNoteNotOwned, zap.String("requester", requesterID))
		return services.ErrUnauthorized
	}

	if err := n.noteRepo.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("%s: %w", errCtxDeletingNote, err)
	}

	log.Info(ctx, msgNoteDeleted)
	return nil
}

// ListNotes возвращает заметки владельца.
func (n *NoteUseCaseImpl) ListNotes(ctx context.Context, ownerID string) ([]*entities.Note, error) {
	ownerID = entities.NormalizeUserID(ownerID)
	if ownerID == "" {
		return nil, services.ErrUnauthorized
	}

	notes, err := n.noteRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxListingNotes, err)
	}
	return notes, nil
}
