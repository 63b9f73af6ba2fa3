// Package entities описывает доменные сущности: пользователей, заметки и изображения.
package entities

import (
	"errors"
	"strings"
	"time"
)

// AdminID - идентификатор привилегированного пользователя.
const AdminID = "ADMIN"

// Ошибки домена пользователя.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmptyUserID  = errors.New("user ID cannot be empty")
	ErrUserExists   = errors.New("user already exists")
)

// User - учетная запись. ID всегда хранится в верхнем регистре.
type User struct {
	ID           string
	PasswordHash string
	CreatedAt    time.Time
}

// NormalizeUserID приводит идентификатор пользователя к каноническому виду.
func NormalizeUserID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// IsAdmin сообщает, является ли id администратором.
func IsAdmin(id string) bool {
	return NormalizeUserID(id) == AdminID
}
