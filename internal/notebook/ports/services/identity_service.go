package services

import "time"

// IdentityService выводит идентификаторы заметок и изображений.
type IdentityService interface {
	DeriveRecordID(ownerID string, ts time.Time, extra ...string) string
}
