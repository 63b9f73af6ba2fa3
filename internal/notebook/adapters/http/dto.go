package http

import (
	"time"

	"notebook/internal/notebook/domain/entities"
)

// Поля форм, совместимые с веб-клиентом.
const (
	formUserID   = "id"
	formPassword = "pw"
	formNote     = "text_note_to_take"
	formFile     = "file"
)

// NoteResponse - заметка на приватной странице.
type NoteResponse struct {
	NoteID    string    `json:"note_id"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
	DeleteURL string    `json:"delete_url"`
}

// ImageResponse - изображение на приватной странице.
type ImageResponse struct {
	ImageUID  string    `json:"image_uid"`
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	URL       string    `json:"url"`
	DeleteURL string    `json:"delete_url"`
}

// PrivatePageResponse - заметки и изображения текущего пользователя.
type PrivatePageResponse struct {
	UserID string          `json:"user_id"`
	Notes  []NoteResponse  `json:"notes"`
	Images []ImageResponse `json:"images"`
}

// UserResponse - строка таблицы пользователей в панели администратора.
type UserResponse struct {
	Index     int    `json:"index"`
	UserID    string `json:"user_id"`
	DeleteURL string `json:"delete_url"`
}

// AdminPageResponse - панель администратора.
type AdminPageResponse struct {
	Users []UserResponse `json:"users"`
}

func toNoteResponses(notes []*entities.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, NoteResponse{
			NoteID:    n.ID,
			Timestamp: n.Timestamp,
			Content:   n.Content,
			DeleteURL: "/delete_note/" + n.ID,
		})
	}
	return out
}

func toImageResponses(images []*entities.Image) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for _, i := range images {
		out = append(out, ImageResponse{
			ImageUID:  i.UID,
			Filename:  i.OriginalFilename,
			Timestamp: i.Timestamp,
			URL:       "/image/" + i.UID,
			DeleteURL: "/delete_image/" + i.UID,
		})
	}
	return out
}

func toUserResponses(users []*entities.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for idx, u := range users {
		out = append(out, UserResponse{
			Index:     idx + 1,
			UserID:    u.ID,
			DeleteURL: "/delete_user/" + u.ID + "/",
		})
	}
	return out
}
