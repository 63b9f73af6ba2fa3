package api

import (
	"context"
	"io"

	"notebook/internal/notebook/domain/entities"
)

// ImageUseCase - операции с изображениями.
type ImageUseCase interface {
	UploadImage(ctx context.Context, ownerID, filename string, data []byte) (string, error)

	DeleteImage(ctx context.Context, requesterID, uid string) error

	ListImages(ctx context.Context, ownerID string) ([]*entities.Image, error)

	OpenImage(ctx context.Context, requesterID, uid string) (*entities.Image, io.ReadCloser, error)
}
