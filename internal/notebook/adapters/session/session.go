// Package session реализует сервис сессий: подписанный JWT в cookie и реестр живых сессий в Redis.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notebook/internal/notebook/domain/entities"
	"notebook/internal/notebook/domain/services"
	svc "notebook/internal/notebook/ports/services"
	"notebook/pkg/logger"
)

const (
	sessionKeyPrefix  = "session:"
	userSetKeyPrefix  = "sessions:user:"
	msgSessionCreated = "session created"
	msgSessionRevoked = "user sessions revoked"
	errSigningToken   = "error signing session token"
	errStoringSession = "error storing session"
	errLookupSession  = "error looking up session"
	errRevokeSessions = "error revoking sessions"
)

// ErrEmptySecret возвращается при пустом ключе подписи.
var ErrEmptySecret = errors.New("session secret cannot be empty")

// Claims - содержимое токена сессии.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Service хранит сессии в Redis, токен подписывается HS256.
type Service struct {
	client redis.Cmdable
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New создает сервис сессий.
func New(client redis.Cmdable, secret string, ttl time.Duration) (svc.SessionService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Service{client: client, secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Create открывает сессию пользователя и возвращает подписанный токен.
func (s *Service) Create(ctx context.Context, userID string) (*services.Session, error) {
	userID = entities.NormalizeUserID(userID)
	log := logger.Log(ctx).With(zap.String("method", "Create"), zap.String("userID", userID))

	now := s.now()
	sess := &services.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
	}

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errSigningToken, err)
	}
	sess.Token = token

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+sess.ID, userID, s.ttl)
	pipe.SAdd(ctx, userSetKeyPrefix+userID, sess.ID)
	pipe.Expire(ctx, userSetKeyPrefix+userID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error(ctx, errStoringSession, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errStoringSession, err)
	}

	log.Debug(ctx, msgSessionCreated, zap.String("sessionID", sess.ID))
	return sess, nil
}

// Resolve проверяет подпись токена и наличие сессии в реестре.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}

	userID, err := s.client.Get(ctx, sessionKeyPrefix+claims.ID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", services.ErrInvalidSession
		}
		logger.Log(ctx).Error(ctx, errLookupSession, zap.Error(err))
		return "", fmt.Errorf("%s: %w", errLookupSession, err)
	}
	if userID != claims.UserID {
		return "", services.ErrInvalidSession
	}

	return userID, nil
}

// Destroy завершает сессию; недействительный токен игнорируется.
func (s *Service) Destroy(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+claims.ID)
	pipe.SRem(ctx, userSetKeyPrefix+claims.UserID, claims.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", errRevokeSessions, err)
	}
	return nil
}

// RevokeUser удаляет все сессии пользователя. Повторный вызов безопасен.
func (s *Service) RevokeUser(ctx context.Context, userID string) error {
	userID = entities.NormalizeUserID(userID)
	log := logger.Log(ctx).With(zap.String("method", "RevokeUser"), zap.String("userID", userID))

	setKey := userSetKeyPrefix + userID
	ids, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Error(ctx, errRevokeSessions, zap.Error(err))
		return fmt.Errorf("%s: %w", errRevokeSessions, err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, setKey)

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		log.Error(ctx, errRevokeSessions, zap.Error(err))
		return fmt.Errorf("%s: %w", errRevokeSessions, err)
	}

	log.Info(ctx, msgSessionRevoked, zap.Int("count", len(ids)))
	return nil
}

func (s *Service) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, services.ErrInvalidSession
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", services.ErrInvalidSession, t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, services.ErrSessionExpired
		}
		return nil, services.ErrInvalidSession
	}
	if !parsed.Valid || claims.ID == "" || claims.UserID == "" {
		return nil, services.ErrInvalidSession
	}

	return claims, nil
}
