package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"notebook/internal/notebook/domain/entities"
	"notebook/internal/notebook/domain/services"
	"notebook/internal/notebook/ports/api"
	"notebook/internal/notebook/ports/repositories"
	svc "notebook/internal/notebook/ports/services"
	"notebook/internal/notebook/ports/storage"
	"notebook/pkg/logger"
)

const (
	msgImageUploaded     = "image uploaded"
	msgImageRejected     = "image upload rejected"
	msgImageDeleted      = "image deleted"
	msgImageMissing      = "image to delete does not exist"
	msgImageNotOwned     = "attempt to access image owned by another user"
	msgOrphanFile        = "image record insert failed, stored file left in pool"
	msgStoredFileMissing = "stored file already absent"
	errCtxWritingFile    = "writing stored file"
	errCtxRecordingImage = "recording image"
	errCtxDeletingImage  = "deleting image"
	errCtxListingImages  = "listing images"
	errCtxFindingImage   = "finding image"
	errCtxLocatingFile   = "locating stored file"
	errCtxRemovingFile   = "removing stored file"
	errCtxOpeningFile    = "opening stored file"
)

// ImageUseCaseImpl реализует api.ImageUseCase.
type ImageUseCaseImpl struct {
	imageRepo repositories.ImageRepository
	pool      storage.FilePool
	owners    *OwnershipResolver
	identity  svc.IdentityService
	now       Clock
}

// NewImageUseCase создает сервис изображений.
func NewImageUseCase(
	imageRepo repositories.ImageRepository,
	pool storage.FilePool,
	owners *OwnershipResolver,
	identity svc.IdentityService,
	now Clock,
) api.ImageUseCase {
	if now == nil {
		now = time.Now
	}
	return &ImageUseCaseImpl{imageRepo: imageRepo, pool: pool, owners: owners, identity: identity, now: now}
}

// UploadImage сохраняет файл в пуле, затем запись о нем. Возвращает UID изображения.
// Ошибка вставки оставляет в пуле файл без записи, но не запись без файла.
func (i *ImageUseCaseImpl) UploadImage(ctx context.Context, ownerID, filename string, data []byte) (string, error) {
	ownerID = entities.NormalizeUserID(ownerID)
	log := logger.Log(ctx).With(zap.String("method", "UploadImage"), zap.String("owner", ownerID))

	if ownerID == "" {
		return "", services.ErrUnauthorized
	}
	if filename == "" || len(data) == 0 {
		log.Debug(ctx, msgImageRejected, zap.Error(services.ErrEmptyUpload))
		return "", services.ErrEmptyUpload
	}
	if !allowedFile(filename) {
		log.Debug(ctx, msgImageRejected, zap.String("filename", filename))
		return "", fmt.Errorf("%w: %q", services.ErrInvalidExtension, filename)
	}

	safe := sanitizeFilename(filename)
	if !allowedFile(safe) {
		log.Debug(ctx, msgImageRejected, zap.String("filename", filename), zap.String("sanitized", safe))
		return "", fmt.Errorf("%w: %q", services.ErrInvalidExtension, filename)
	}

	ts := i.now().UTC()
	image := &entities.Image{
		UID:              i.identity.DeriveRecordID(ownerID, ts, safe),
		Owner:            ownerID,
		OriginalFilename: safe,
		Timestamp:        ts,
	}

	if err := i.pool.Write(ctx, image.StoredName(), data); err != nil {
		return "", fmt.Errorf("%s: %w", errCtxWritingFile, err)
	}
	if err := i.imageRepo.Create(ctx, image); err != nil {
		log.Warn(ctx, msgOrphanFile, zap.String("file", image.StoredName()), zap.Error(err))
		return "", fmt.Errorf("%s: %w", errCtxRecordingImage, err)
	}

	log.Info(ctx, msgImageUploaded, zap.String("uid", image.UID), zap.Int("size", len(data)))
	return image.UID, nil
}

// DeleteImage удаляет запись и файл изображения, если requesterID владелец.
func (i *ImageUseCaseImpl) DeleteImage(ctx context.Context, requesterID, uid string) error {
	requesterID = entities.NormalizeUserID(requesterID)
	log := logger.Log(ctx).With(zap.String("method", "DeleteImage"), zap.String("uid", uid))

	owner, err := i.owners.OwnerOfImage(ctx, uid)
	if err != nil {
		if errors.Is(err, entities.ErrImageNotFound) {
			log.Debug(ctx, msgImageMissing)
			return nil
		}
		return fmt.Errorf("%s: %w", errCtxResolvingOwner, err)
	}
	if requesterID == "" || owner != requesterID {
		log.Warn(ctx, msgImageNotOwned, zap.String("requester", requesterID))
		return services.ErrUnauthorized
	}

	if err := i.imageRepo.Delete(ctx, uid); err != nil {
		return fmt.Errorf("%s: %w", errCtxDeletingImage, err)
	}
	if err := removeStoredFile(ctx, i.pool, uid); err != nil {
		return err
	}

	log.Info(ctx, msgImageDeleted)
	return nil
}

// ListImages возвращает изображения владельца.
func (i *ImageUseCaseImpl) ListImages(ctx context.Context, ownerID string) ([]*entities.Image, error) {
	ownerID = entities.NormalizeUserID(ownerID)
	if ownerID == "" {
		return nil, services.ErrUnauthorized
	}

	images, err := i.imageRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxListingImages, err)
	}
	return images, nil
}

// OpenImage открывает файл изображения для владельца. Вызывающий закрывает поток.
func (i *ImageUseCaseImpl) OpenImage(ctx context.Context, requesterID, uid string) (*entities.Image, io.ReadCloser, error) {
	requesterID = entities.NormalizeUserID(requesterID)

	image, err := i.imageRepo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, entities.ErrImageNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%s: %w", errCtxFindingImage, err)
	}
	if requesterID == "" || image.Owner != requesterID {
		logger.Log(ctx).Warn(ctx, msgImageNotOwned, zap.String("uid", uid), zap.String("requester", requesterID))
		return nil, nil, services.ErrUnauthorized
	}

	rc, err := i.pool.Open(ctx, image.StoredName())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", errCtxOpeningFile, err)
	}
	return image, rc, nil
}

// removeStoredFile ищет файл изображения по префиксу "{uid}-" и удаляет его.
// Отсутствие файла не считается ошибкой.
func removeStoredFile(ctx context.Context, pool storage.FilePool, uid string) error {
	name, ok, err := pool.FindByPrefix(ctx, entities.StoredFilePrefix(uid))
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxLocatingFile, err)
	}
	if !ok {
		logger.Log(ctx).Debug(ctx, msgStoredFileMissing, zap.String("uid", uid))
		return nil
	}
	if err := pool.Remove(ctx, name); err != nil {
		return fmt.Errorf("%s: %w", errCtxRemovingFile, err)
	}
	return nil
}
