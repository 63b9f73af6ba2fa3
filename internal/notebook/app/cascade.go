package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"notebook/internal/notebook/domain/entities"
	"notebook/internal/notebook/domain/services"
	"notebook/internal/notebook/ports/api"
	"notebook/internal/notebook/ports/repositories"
	svc "notebook/internal/notebook/ports/services"
	"notebook/internal/notebook/ports/storage"
	"notebook/pkg/logger"
)

// Имена шагов удаления пользователя в порядке выполнения.
const (
	StepRemoveImageFiles   = "remove-image-files"
	StepDeleteImageRecords = "delete-image-records"
	StepDeleteNoteRecords  = "delete-note-records"
	StepRevokeSessions     = "revoke-sessions"
	StepDeleteUserRecord   = "delete-user-record"
)

const (
	msgCascadeStart    = "deleting user"
	msgCascadeStep     = "cascade step completed"
	msgCascadeFailed   = "cascade step failed, user partially deleted"
	msgCascadeDone     = "user deleted"
	msgCascadeNoTarget = "user to delete does not exist"
	msgCascadeDenied   = "user deletion denied"
)

// StepError - ошибка шага каскадного удаления.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("cascade step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type cascadeStep struct {
	name string
	run  func(ctx context.Context, userID string) error
}

// CascadeCoordinator удаляет пользователя вместе с его заметками, изображениями и сессиями.
// Шаги выполняются последовательно до первой ошибки; каждый шаг идемпотентен,
// поэтому прерванное удаление безопасно повторить целиком.
type CascadeCoordinator struct {
	users    repositories.UserRepository
	notes    repositories.NoteRepository
	images   repositories.ImageRepository
	pool     storage.FilePool
	sessions svc.SessionService
	steps    []cascadeStep
}

// NewCascadeCoordinator создает координатор удаления. sessions может быть nil.
func NewCascadeCoordinator(
	users repositories.UserRepository,
	notes repositories.NoteRepository,
	images repositories.ImageRepository,
	pool storage.FilePool,
	sessions svc.SessionService,
) *CascadeCoordinator {
	c := &CascadeCoordinator{
		users:    users,
		notes:    notes,
		images:   images,
		pool:     pool,
		sessions: sessions,
	}
	c.steps = []cascadeStep{
		{name: StepRemoveImageFiles, run: c.removeImageFiles},
		{name: StepDeleteImageRecords, run: c.deleteImageRecords},
		{name: StepDeleteNoteRecords, run: c.deleteNoteRecords},
		{name: StepRevokeSessions, run: c.revokeSessions},
		{name: StepDeleteUserRecord, run: c.deleteUserRecord},
	}
	return c
}

var _ api.UserDeleter = (*CascadeCoordinator)(nil)

// Steps возвращает имена шагов в порядке выполнения.
func (c *CascadeCoordinator) Steps() []string {
	names := make([]string, 0, len(c.steps))
	for _, s := range c.steps {
		names = append(names, s.name)
	}
	return names
}

// DeleteUser удаляет targetID. Вызывать может только ADMIN, удалить ADMIN нельзя.
func (c *CascadeCoordinator) DeleteUser(ctx context.Context, requesterID, targetID string) error {
	targetID = entities.NormalizeUserID(targetID)
	log := logger.Log(ctx).With(zap.String("method", "DeleteUser"), zap.String("target", targetID))

	if !entities.IsAdmin(requesterID) {
		log.Warn(ctx, msgCascadeDenied, zap.String("requester", requesterID))
		return services.ErrUnauthorized
	}
	if entities.IsAdmin(targetID) {
		log.Warn(ctx, msgCascadeDenied, zap.Error(services.ErrForbidden))
		return services.ErrForbidden
	}
	if targetID == "" {
		return fmt.Errorf("%w: %w", services.ErrInvalidUserID, entities.ErrEmptyUserID)
	}

	if _, err := c.users.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgCascadeNoTarget)
			return nil
		}
		return fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	log.Info(ctx, msgCascadeStart)
	for _, step := range c.steps {
		if err := step.run(ctx, targetID); err != nil {
			log.Error(ctx, msgCascadeFailed, zap.String("step", step.name), zap.Error(err))
			return &StepError{Step: step.name, Err: err}
		}
		log.Debug(ctx, msgCascadeStep, zap.String("step", step.name))
	}

	log.Info(ctx, msgCascadeDone)
	return nil
}

func (c *CascadeCoordinator) removeImageFiles(ctx context.Context, userID string) error {
	images, err := c.images.ListByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxListingImages, err)
	}
	for _, image := range images {
		if err := removeStoredFile(ctx, c.pool, image.UID); err != nil {
			return err
		}
	}
	return nil
}

func (c *CascadeCoordinator) deleteImageRecords(ctx context.Context, userID string) error {
	_, err := c.images.DeleteByOwner(ctx, userID)
	return err
}

func (c *CascadeCoordinator) deleteNoteRecords(ctx context.Context, userID string) error {
	_, err := c.notes.DeleteByOwner(ctx, userID)
	return err
}

func (c *CascadeCoordinator) revokeSessions(ctx context.Context, userID string) error {
	if c.sessions == nil {
		return nil
	}
	return c.sessions.RevokeUser(ctx, userID)
}

func (c *CascadeCoordinator) deleteUserRecord(ctx context.Context, userID string) error {
	return c.users.Delete(ctx, userID)
}
