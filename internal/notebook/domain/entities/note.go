package entities

import (
	"errors"
	"time"
)

// ErrNoteNotFound возвращается, когда заметка не найдена.
var ErrNoteNotFound = errors.New("note not found")

// Note - приватная заметка пользователя. Owner не меняется после создания.
type Note struct {
	ID        string    `json:"note_id"`
	Owner     string    `json:"owner"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
}
