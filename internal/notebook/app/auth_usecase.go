package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
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
	methodAuthenticate = "Authenticate"
	methodCreateUser   = "CreateUser"
	methodListUsers    = "ListUsers"
	methodEnsureAdmin  = "EnsureAdmin"

	msgLoginAttempt       = "login attempt"
	msgLoginUnknownUser   = "login attempt with non-existent user"
	msgLoginBadPassword   = "invalid password provided"
	msgUserAuthenticated  = "user authenticated"
	msgPasswordUpgraded   = "legacy password hash upgraded"
	msgNotAdmin           = "user management requested by non-admin"
	msgInvalidUserID      = "invalid user ID"
	msgDuplicateUser      = "user ID already exists"
	msgUserCreated        = "user created"
	msgAdminExists        = "admin user already present"
	msgAdminCreated       = "admin user created"
	msgErrUpgradePassword = "failed to upgrade legacy password hash"

	errCtxFindingUser       = "finding user"
	errCtxVerifyingPassword = "verifying password"
	errCtxHashingPassword   = "hashing password"
	errCtxCreatingUser      = "creating user"
	errCtxListingUsers      = "listing users"
)

// forbiddenIDChars - символы, недопустимые в ID пользователя.
const forbiddenIDChars = " '"

// AuthUseCaseImpl реализует api.AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
	now         Clock
}

// NewAuthUseCase создает сервис учетных записей.
func NewAuthUseCase(userRepo repositories.UserRepository, passwordSvc svc.PasswordService) api.AuthUseCase {
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		now:         time.Now,
	}
}

// Authenticate проверяет пароль. Неизвестный пользователь или неверный пароль дают false без ошибки.
// Устаревший хэш после успешной проверки заменяется на bcrypt.
func (a *AuthUseCaseImpl) Authenticate(ctx context.Context, userID, password string) (bool, error) {
	userID = entities.NormalizeUserID(userID)
	log := logger.Log(ctx).With(zap.String("method", methodAuthenticate), zap.String("userID", userID))
	log.Debug(ctx, msgLoginAttempt)

	if userID == "" {
		return false, nil
	}

	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginUnknownUser)
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	ok, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !ok {
		log.Debug(ctx, msgLoginBadPassword)
		return false, nil
	}

	if a.passwordSvc.NeedsRehash(user.PasswordHash) {
		a.upgradeHash(ctx, userID, password)
	}

	log.Info(ctx, msgUserAuthenticated)
	return true, nil
}

func (a *AuthUseCaseImpl) upgradeHash(ctx context.Context, userID, password string) {
	log := logger.Log(ctx).With(zap.String("userID", userID))

	hash, err := a.passwordSvc.Hash(ctx, password)
	if err == nil {
		err = a.userRepo.UpdatePasswordHash(ctx, userID, hash)
	}
	if err != nil {
		log.Warn(ctx, msgErrUpgradePassword, zap.Error(err))
		return
	}
	log.Info(ctx, msgPasswordUpgraded)
}

// CreateUser добавляет пользователя. Доступно только ADMIN.
func (a *AuthUseCaseImpl) CreateUser(ctx context.Context, requesterID, userID, password string) error {
	log := logger.Log(ctx).With(zap.String("method", methodCreateUser), zap.String("requester", requesterID))

	if !entities.IsAdmin(requesterID) {
		log.Warn(ctx, msgNotAdmin)
		return services.ErrUnauthorized
	}

	if strings.ContainsAny(userID, forbiddenIDChars) {
		log.Debug(ctx, msgInvalidUserID, zap.String("userID", userID))
		return fmt.Errorf("%w: %q", services.ErrInvalidUserID, userID)
	}
	userID = entities.NormalizeUserID(userID)
	if userID == "" {
		log.Debug(ctx, msgInvalidUserID)
		return fmt.Errorf("%w: %w", services.ErrInvalidUserID, entities.ErrEmptyUserID)
	}
	if entities.IsAdmin(userID) {
		log.Debug(ctx, msgDuplicateUser, zap.String("userID", userID))
		return services.ErrDuplicateUser
	}

	hash, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	err = a.userRepo.Create(ctx, &entities.User{ID: userID, PasswordHash: hash, CreatedAt: a.now().UTC()})
	if err != nil {
		if errors.Is(err, entities.ErrUserExists) {
			log.Debug(ctx, msgDuplicateUser, zap.String("userID", userID))
			return services.ErrDuplicateUser
		}
		return fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserCreated, zap.String("userID", userID))
	return nil
}

// ListUsers возвращает всех пользователей для панели администратора.
func (a *AuthUseCaseImpl) ListUsers(ctx context.Context, requesterID string) ([]*entities.User, error) {
	if !entities.IsAdmin(requesterID) {
		logger.Log(ctx).Warn(ctx, msgNotAdmin, zap.String("method", methodListUsers), zap.String("requester", requesterID))
		return nil, services.ErrUnauthorized
	}

	users, err := a.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxListingUsers, err)
	}
	return users, nil
}

// EnsureAdmin создает ADMIN с данным паролем, если его нет. Существующий пароль не меняется.
func (a *AuthUseCaseImpl) EnsureAdmin(ctx context.Context, password string) error {
	log := logger.Log(ctx).With(zap.String("method", methodEnsureAdmin))

	_, err := a.userRepo.FindByID(ctx, entities.AdminID)
	if err == nil {
		log.Debug(ctx, msgAdminExists)
		return nil
	}
	if !errors.Is(err, entities.ErrUserNotFound) {
		return fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	hash, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	err = a.userRepo.Create(ctx, &entities.User{ID: entities.AdminID, PasswordHash: hash, CreatedAt: a.now().UTC()})
	if err != nil && !errors.Is(err, entities.ErrUserExists) {
		return fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgAdminCreated)
	return nil
}
