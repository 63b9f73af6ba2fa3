package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"notebook/internal/notebook/domain/entities"
)

// NoteRepository хранит заметки в таблице notes.
type NoteRepository struct {
	db *gorm.DB
}

func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	model := noteModel{
		NoteID:    note.ID,
		Owner:     note.Owner,
		CreatedAt: note.Timestamp.UTC(),
		Content:   note.Content,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (r *NoteRepository) FindByID(ctx context.Context, noteID string) (*entities.Note, error) {
	var model noteModel
	if err := r.db.WithContext(ctx).Where("note_id = ?", noteID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return model.toEntity(), nil
}

func (r *NoteRepository) ListByOwner(ctx context.Context, owner string) ([]*entities.Note, error) {
	var models []noteModel
	if err := r.db.WithContext(ctx).Where("owner = ?", owner).Order("created_at").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	notes := make([]*entities.Note, 0, len(models))
	for i := range models {
		notes = append(notes, models[i].toEntity())
	}
	return notes, nil
}

func (r *NoteRepository) Delete(ctx context.Context, noteID string) error {
	if err := r.db.WithContext(ctx).Where("note_id = ?", noteID).Delete(&noteModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

func (r *NoteRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	result := r.db.WithContext(ctx).Where("owner = ?", owner).Delete(&noteModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete notes by owner: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (m *noteModel) toEntity() *entities.Note {
	return &entities.Note{ID: m.NoteID, Owner: m.Owner, Timestamp: m.CreatedAt, Content: m.Content}
}
