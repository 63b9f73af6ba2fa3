// Package services содержит доменные ошибки и типы сервисов авторизации.
package services

import "errors"

// Таксономия ошибок авторизации и валидации.
var (
	// ErrUnauthorized - вызывающий не владелец ресурса или не вошел в систему (401).
	ErrUnauthorized = errors.New("unauthorized access")
	// ErrForbidden - действие запрещено структурно, например удаление ADMIN (403).
	ErrForbidden = errors.New("forbidden action")
	// ErrDuplicateUser - пользователь с таким ID уже существует.
	ErrDuplicateUser = errors.New("user ID already exists")
	// ErrInvalidUserID - ID содержит пробел или апостроф, либо пуст.
	ErrInvalidUserID = errors.New("invalid user ID")
	// ErrInvalidExtension - расширение файла не входит в список разрешенных.
	ErrInvalidExtension = errors.New("file extension is not allowed")
	// ErrEmptyUpload - не передан файл или имя файла.
	ErrEmptyUpload = errors.New("no file selected")
)
