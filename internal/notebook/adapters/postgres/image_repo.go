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

// ImageRepository хранит метаданные изображений в таблице images.
type ImageRepository struct {
	pool PgxPoolInterface
}

// NewImageRepository создает репозиторий изображений.
func NewImageRepository(pool PgxPoolInterface) repositories.ImageRepository {
	return &ImageRepository{pool: pool}
}

// Create сохраняет запись об изображении.
func (r *ImageRepository) Create(ctx context.Context, image *entities.Image) error {
	log := logger.Log(ctx).With(zap.String("method", "ImageRepository.Create"))
	log.Debug(ctx, "recording image upload", zap.String("uid", image.UID), zap.String("owner", image.Owner))

	_, err := r.pool.Exec(ctx,
		`INSERT INTO images (uid, owner, original_filename, created_at) VALUES ($1, $2, $3, $4)`,
		image.UID, image.Owner, image.OriginalFilename, image.Timestamp,
	)
	if err != nil {
		log.Error(ctx, "failed to record image", zap.Error(err))
		return fmt.Errorf("failed to record image: %w", err)
	}

	return nil
}

// FindByUID возвращает запись об изображении.
func (r *ImageRepository) FindByUID(ctx context.Context, uid string) (*entities.Image, error) {
	log := logger.Log(ctx).With(zap.String("method", "ImageRepository.FindByUID"))

	var image entities.Image
	err := r.pool.QueryRow(ctx,
		`SELECT uid, owner, original_filename, created_at FROM images WHERE uid = $1`,
		uid,
	).Scan(&image.UID, &image.Owner, &image.OriginalFilename, &image.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "image not found", zap.String("uid", uid))
			return nil, entities.ErrImageNotFound
		}
		log.Error(ctx, "failed to get image", zap.Error(err))
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return &image, nil
}

// ListByOwner возвращает изображения владельца.
func (r *ImageRepository) ListByOwner(ctx context.Context, owner string) ([]*entities.Image, error) {
	log := logger.Log(ctx).With(zap.String("method", "ImageRepository.ListByOwner"))

	rows, err := r.pool.Query(ctx,
		`SELECT uid, owner, original_filename, created_at FROM images WHERE owner = $1 ORDER BY created_at`,
		owner,
	)
	if err != nil {
		log.Error(ctx, "failed to list images", zap.Error(err))
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	images := make([]*entities.Image, 0)
	for rows.Next() {
		var image entities.Image
		if err := rows.Scan(&image.UID, &image.Owner, &image.OriginalFilename, &image.Timestamp); err != nil {
			log.Error(ctx, "failed to scan image", zap.Error(err))
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, &image)
	}
	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return images, nil
}

// Delete удаляет запись об изображении.
func (r *ImageRepository) Delete(ctx context.Context, uid string) error {
	log := logger.Log(ctx).With(zap.String("method", "ImageRepository.Delete"))

	if _, err := r.pool.Exec(ctx, `DELETE FROM images WHERE uid = $1`, uid); err != nil {
		log.Error(ctx, "failed to delete image", zap.Error(err))
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}

// DeleteByOwner удаляет все записи об изображениях владельца.
func (r *ImageRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	log := logger.Log(ctx).With(zap.String("method", "ImageRepository.DeleteByOwner"))

	result, err := r.pool.Exec(ctx, `DELETE FROM images WHERE owner = $1`, owner)
	if err != nil {
		log.Error(ctx, "failed to delete images by owner", zap.Error(err))
		return 0, fmt.Errorf("failed to delete images by owner: %w", err)
	}

	return result.RowsAffected(), nil
}
