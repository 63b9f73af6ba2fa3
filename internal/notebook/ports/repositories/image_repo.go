package repositories

import (
	"context"

	"notebook/internal/notebook/domain/entities"
)

// ImageRepository - таблица метаданных изображений.
type ImageRepository interface {
	Create(ctx context.Context, image *entities.Image) error

	// FindByUID возвращает entities.ErrImageNotFound, если записи нет.
	FindByUID(ctx context.Context, uid string) (*entities.Image, error)

	ListByOwner(ctx context.Context, owner string) ([]*entities.Image, error)

	Delete(ctx context.Context, uid string) error

	DeleteByOwner(ctx context.Context, owner string) (int64, error)
}
