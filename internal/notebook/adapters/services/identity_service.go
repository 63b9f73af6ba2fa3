package services

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"notebook/internal/notebook/domain/entities"
	svc "notebook/internal/notebook/ports/services"
)

// IdentityTimeLayout - формат отметки времени, участвующей в выводе идентификатора.
const IdentityTimeLayout = time.RFC3339Nano

// ServiceIdentity выводит идентификаторы записей через SHA-256.
type ServiceIdentity struct{}

// NewIdentity создает генератор идентификаторов.
func NewIdentity() svc.IdentityService {
	return &ServiceIdentity{}
}

// DeriveRecordID возвращает hex(SHA-256(owner | timestamp | extra...)).
// Владелец нормализуется к верхнему регистру, время берется в UTC с наносекундами.
func (s *ServiceIdentity) DeriveRecordID(ownerID string, ts time.Time, extra ...string) string {
	h := sha256.New()
	h.Write([]byte(entities.NormalizeUserID(ownerID)))
	h.Write([]byte{0})
	h.Write([]byte(ts.UTC().Format(IdentityTimeLayout)))
	for _, e := range extra {
		h.Write([]byte{0})
		h.Write([]byte(e))
	}
	return hex.EncodeToString(h.Sum(nil))
}
