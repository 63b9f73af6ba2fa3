package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"notebook/internal/notebook/domain/services"
	svc "notebook/internal/notebook/ports/services"
)

const (
	errMsgFailedToGenerateHash = "failed to generate password hash"
	errMsgErrorComparingHash   = "error comparing password with hash"

	// maxPasswordBytes - предел длины входа bcrypt.
	maxPasswordBytes = 72

	// legacyHashLength - длина hex-представления несоленого SHA-256 из старых данных.
	legacyHashLength = sha256.Size * 2
)

// ServiceBcrypt реализует PasswordService на bcrypt с поддержкой проверки старых SHA-256 хэшей.
type ServiceBcrypt struct {
	cost int
}

// NewBcrypt создает сервис паролей.
func NewBcrypt(cost int) svc.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &ServiceBcrypt{cost: cost}
}

// Hash хэширует пароль bcrypt.
func (s *ServiceBcrypt) Hash(_ context.Context, password string) (string, error) {
	if password == "" || len(password) > maxPasswordBytes {
		return "", services.ErrInvalidPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", services.ErrInvalidPassword
		}
		return "", fmt.Errorf("%s: %w: %w", errMsgFailedToGenerateHash, services.ErrHashingFailed, err)
	}

	return string(hashed), nil
}

// Verify проверяет пароль против bcrypt или устаревшего SHA-256 хэша.
func (s *ServiceBcrypt) Verify(_ context.Context, password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, nil
	}

	if isLegacyHash(hash) {
		sum := sha256.Sum256([]byte(password))
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(hash)) == 1, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", errMsgErrorComparingHash, err)
	}

	return true, nil
}

// NeedsRehash возвращает true для устаревших SHA-256 хэшей.
func (s *ServiceBcrypt) NeedsRehash(hash string) bool {
	return isLegacyHash(hash)
}

func isLegacyHash(hash string) bool {
	if len(hash) != legacyHashLength {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
