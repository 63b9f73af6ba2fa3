package entities

import (
	"errors"
	"time"
)

// ErrImageNotFound возвращается, когда запись об изображении не найдена.
var ErrImageNotFound = errors.New("image not found")

// StoredFileSeparator разделяет UID и имя файла в имени файла пула.
const StoredFileSeparator = "-"

// Image - метаданные загруженного изображения. Каждой записи соответствует
// ровно один файл пула с именем StoredName().
type Image struct {
	UID              string    `json:"image_uid"`
	Owner            string    `json:"owner"`
	OriginalFilename string    `json:"original_filename"`
	Timestamp        time.Time `json:"timestamp"`
}

// StoredName возвращает имя файла в пуле: "{uid}-{filename}".
func (i *Image) StoredName() string {
	return StoredFileName(i.UID, i.OriginalFilename)
}

// StoredFileName собирает имя файла пула.
func StoredFileName(uid, filename string) string {
	return uid + StoredFileSeparator + filename
}

// StoredFilePrefix возвращает префикс, по которому файл изображения ищется в пуле.
func StoredFilePrefix(uid string) string {
	return uid + StoredFileSeparator
}
