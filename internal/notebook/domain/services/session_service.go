package services

import (
	"errors"
	"time"
)

// Ошибки сессий.
var (
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session has expired")
)

// Session - активная сессия пользователя.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
}
