package logger

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxRequestIDLength ограничивает длину идентификатора, принятого от клиента.
const MaxRequestIDLength = 64

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

// NewRequestIDContext кладет в контекст идентификатор запроса.
// Пустой или некорректный идентификатор заменяется новым.
func NewRequestIDContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, SanitizeRequestID(requestID))
}

func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

// GenerateRequestID возвращает новый UUID v4.
func GenerateRequestID() string {
	return uuid.NewString()
}

// SanitizeRequestID возвращает id, если он непустой, не длиннее MaxRequestIDLength
// и состоит из букв, цифр, '-', '_' и '.'. Иначе генерирует новый.
func SanitizeRequestID(id string) string {
	if id == "" || len(id) > MaxRequestIDLength {
		return GenerateRequestID()
	}
	for i := 0; i < len(id); i++ {
		if !isRequestIDByte(id[i]) {
			return GenerateRequestID()
		}
	}
	return id
}

func isRequestIDByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '-', b == '_', b == '.':
		return true
	}
	return false
}

// WithRequestID добавляет поле request_id, если оно есть в контексте.
func (l *Logger) WithRequestID(ctx context.Context) *Logger {
	if id, ok := GetRequestID(ctx); ok {
		return l.With(zap.String(RequestID, id))
	}
	return l
}
