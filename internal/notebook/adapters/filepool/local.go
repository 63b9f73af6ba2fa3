// Package filepool реализует пул загруженных файлов: каталог на диске или бакет S3.
package filepool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"notebook/internal/notebook/ports/storage"
	"notebook/pkg/logger"
)

// ErrInvalidName возвращается для имен, выходящих за пределы плоского пула.
var ErrInvalidName = errors.New("invalid pool file name")

const tempPattern = ".upload-*"

// Local хранит файлы в одном каталоге без вложенности.
type Local struct {
	dir string
}

// NewLocal создает пул в каталоге dir, создавая его при необходимости.
func NewLocal(ctx context.Context, dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		logger.Log(ctx).Error(ctx, "failed to create upload directory", zap.String("dir", dir), zap.Error(err))
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Write записывает файл атомарно через временный файл и переименование.
func (p *Local) Write(ctx context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(p.dir, tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(p.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to store file: %w", err)
	}

	logger.Log(ctx).Debug(ctx, "file stored", zap.String("name", name), zap.Int("size", len(data)))
	return nil
}

func (p *Local) Remove(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(p.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Log(ctx).Error(ctx, "failed to remove file", zap.String("name", name), zap.Error(err))
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// FindByPrefix перебирает каталог и возвращает первое по алфавиту имя с префиксом.
func (p *Local) FindByPrefix(_ context.Context, prefix string) (string, bool, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return "", false, fmt.Errorf("failed to list upload directory: %w", err)
	}

	var matches []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		matches = append(matches, e.Name())
	}
	if len(matches) == 0 {
		return "", false, nil
	}
	sort.Strings(matches)
	return matches[0], true, nil
}

func (p *Local) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(p.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
