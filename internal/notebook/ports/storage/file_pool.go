// Package storage определяет порт пула загруженных файлов.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrFileNotFound возвращается Open, если файла нет в пуле.
var ErrFileNotFound = errors.New("file not found in pool")

// FilePool - плоское хранилище файлов, адресуемых по имени.
type FilePool interface {
	Write(ctx context.Context, name string, data []byte) error

	// Remove удаляет файл; отсутствие файла не является ошибкой.
	Remove(ctx context.Context, name string) error

	// FindByPrefix возвращает имя первого файла с данным префиксом.
	FindByPrefix(ctx context.Context, prefix string) (string, bool, error)

	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
