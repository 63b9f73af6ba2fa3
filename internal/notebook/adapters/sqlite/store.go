// Package sqlite реализует хранилище записей на встроенной SQLite через GORM.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"notebook/internal/notebook/ports/repositories"
	"notebook/pkg/logger"
)

// Store - хранилище пользователей, заметок и изображений в одном файле SQLite.
type Store struct {
	db *gorm.DB
}

type userModel struct {
	ID           string `gorm:"primaryKey"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type noteModel struct {
	NoteID    string `gorm:"column:note_id;primaryKey"`
	Owner     string `gorm:"index;not null"`
	CreatedAt time.Time
	Content   string
}

func (noteModel) TableName() string { return "notes" }

type imageModel struct {
	UID              string `gorm:"column:uid;primaryKey"`
	Owner            string `gorm:"index;not null"`
	OriginalFilename string `gorm:"not null"`
	CreatedAt        time.Time
}

func (imageModel) TableName() string { return "images" }

// NewStore открывает базу по пути path.
func NewStore(ctx context.Context, path string) (*Store, error) {
	logger.Log(ctx).Info(ctx, "opening sqlite store", zap.String("path", path))

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to open sqlite store", zap.Error(err))
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}

	return &Store{db: db}, nil
}

// Migrate приводит схему к актуальному виду.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&userModel{}, &noteModel{}, &imageModel{}); err != nil {
		return fmt.Errorf("failed to migrate sqlite store: %w", err)
	}
	return nil
}

// Ping проверяет доступность базы.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close освобождает соединение с базой.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UserRepository возвращает репозиторий пользователей.
func (s *Store) UserRepository() repositories.UserRepository {
	return &UserRepository{db: s.db}
}

// NoteRepository возвращает репозиторий заметок.
func (s *Store) NoteRepository() repositories.NoteRepository {
	return &NoteRepository{db: s.db}
}

// ImageRepository возвращает репозиторий изображений.
func (s *Store) ImageRepository() repositories.ImageRepository {
	return &ImageRepository{db: s.db}
}
