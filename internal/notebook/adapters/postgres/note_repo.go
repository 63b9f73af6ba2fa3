package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notebook/internal/notebook/domain/entities"
	"notebook/internal/notebook/ports/repositories"
	"notebook/pkg/logger"
)

// NoteRepository хранит заметки в таблице notes.
type NoteRepository struct {
	pool PgxPoolInterface
}

// NewNoteRepository создает репозиторий заметок.
func NewNoteRepository(pool PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create сохраняет заметку.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note", zap.String("owner", note.Owner))

	_, err := r.pool.Exec(ctx,
		`INSERT INTO notes (note_id, owner, created_at, content) VALUES ($1, $2, $3, $4)`,
		note.ID, note.Owner, note.Timestamp, note.Content,
	)
	if err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// FindByID возвращает заметку по ID.
func (r *NoteRepository) FindByID(ctx context.Context, noteID string) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.FindByID"))

	var note entities.Note
	err := r.pool.QueryRow(ctx,
		`SELECT note_id, owner, created_at, content FROM notes WHERE note_id = $1`,
		noteID,
	).Scan(&note.ID, &note.Owner, &note.Timestamp, &note.Content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.String("noteID", noteID))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return &note, nil
}

// ListByOwner возвращает заметки владельца в порядке создания.
func (r *NoteRepository) ListByOwner(ctx context.Context, owner string) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.ListByOwner"))

	rows, err := r.pool.Query(ctx,
		`SELECT note_id, owner, created_at, content FROM notes WHERE owner = $1 ORDER BY created_at`,
		owner,
	)
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*entities.Note, 0)
	for rows.Next() {
		var note entities.Note
		if err := rows.Scan(&note.ID, &note.Owner, &note.Timestamp, &note.Content); err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, nil
}

// Delete удаляет заметку по ID.
func (r *NoteRepository) Delete(ctx context.Context, noteID string) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))

	if _, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE note_id = $1`, noteID); err != nil {
		log.Error(ctx, "failed to delete note", zap.Error(err))
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

// DeleteByOwner удаляет все заметки владельца одним запросом.
func (r *NoteRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.DeleteByOwner"))

	result, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE owner = $1`, owner)
	if err != nil {
		log.Error(ctx, "failed to delete notes by owner", zap.Error(err))
		return 0, fmt.Errorf("failed to delete notes by owner: %w", err)
	}

	return result.RowsAffected(), nil
}
