package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"notebook/internal/notebook/domain/entities"
)

// ImageRepository хранит метаданные изображений в таблице images.
type ImageRepository struct {
	db *gorm.DB
}

func (r *ImageRepository) Create(ctx context.Context, image *entities.Image) error {
	model := imageModel{
		UID:              image.UID,
		Owner:            image.Owner,
		OriginalFilename: image.OriginalFilename,
		CreatedAt:        image.Timestamp.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to record image: %w", err)
	}
	return nil
}

func (r *ImageRepository) FindByUID(ctx context.Context, uid string) (*entities.Image, error) {
	var model imageModel
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return model.toEntity(), nil
}

func (r *ImageRepository) ListByOwner(ctx context.Context, owner string) ([]*entities.Image, error) {
	var models []imageModel
	if err := r.db.WithContext(ctx).Where("owner = ?", owner).Order("created_at").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	images := make([]*entities.Image, 0, len(models))
	for i := range models {
		images = append(images, models[i].toEntity())
	}
	return images, nil
}

func (r *ImageRepository) Delete(ctx context.Context, uid string) error {
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&imageModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

func (r *ImageRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	result := r.db.WithContext(ctx).Where("owner = ?", owner).Delete(&imageModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete images by owner: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (m *imageModel) toEntity() *entities.Image {
	return &entities.Image{UID: m.UID, Owner: m.Owner, OriginalFilename: m.OriginalFilename, Timestamp: m.CreatedAt}
}
