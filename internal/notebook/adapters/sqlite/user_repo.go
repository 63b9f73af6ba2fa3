package sqlite

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"notebook/internal/notebook/domain/entities"
	"notebook/pkg/logger"
)

// UserRepository хранит пользователей в таблице users.
type UserRepository struct {
	db *gorm.DB
}

// Create добавляет пользователя; существующий ID дает entities.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	model := userModel{
		ID:           user.ID,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.UTC(),
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	if result.Error != nil {
		logger.Log(ctx).Error(ctx, "error creating user", zap.Error(result.Error))
		return fmt.Errorf("error creating user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrUserExists
	}

	return nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	var model userModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}

	return &entities.User{ID: model.ID, PasswordHash: model.PasswordHash, CreatedAt: model.CreatedAt}, nil
}

// List возвращает всех пользователей в порядке создания.
func (r *UserRepository) List(ctx context.Context) ([]*entities.User, error) {
	var models []userModel
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	users := make([]*entities.User, 0, len(models))
	for _, m := range models {
		users = append(users, &entities.User{ID: m.ID, PasswordHash: m.PasswordHash, CreatedAt: m.CreatedAt})
	}
	return users, nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	result := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Update("password_hash", hash)
	if result.Error != nil {
		return fmt.Errorf("error updating password hash: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrUserNotFound
	}
	return nil
}

// Delete удаляет пользователя; отсутствие записи не ошибка.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userModel{}).Error; err != nil {
		logger.Log(ctx).Error(ctx, "error deleting user", zap.Error(err))
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}
