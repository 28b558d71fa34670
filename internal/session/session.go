// Package session implements cookie sessions: a signed token carried by the
// browser plus a redis whitelist so logout revokes the session server-side.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"clinic-inventory/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// flashTTL bounds how long an undelivered notice survives.
const flashTTL = 10 * time.Minute

var (
	ErrInvalidSession = errors.New("invalid or expired session")
	ErrSessionRevoked = errors.New("session has been revoked")
)

// Claims is the payload signed into the session cookie.
type Claims struct {
	UserID    uint   `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

type Service struct {
	config      config.SessionConfig
	redisClient *redis.Client
}

func NewService(cfg config.SessionConfig, redisClient *redis.Client) *Service {
	return &Service{config: cfg, redisClient: redisClient}
}

// Create mints a new session for userID: a fresh session ID is whitelisted in
// redis and returned alongside the signed token for the cookie.
func (s *Service) Create(ctx context.Context, userID uint) (string, string, error) {
	sessionID := uuid.New().String()
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", "", err
	}

	key := sessionKey(userID, sessionID)
	if err := s.redisClient.Set(ctx, key, "valid", s.config.Expiry).Err(); err != nil {
		return "", "", err
	}

	return signed, sessionID, nil
}

// Validate parses the signed token and checks the session is still
// whitelisted in redis.
func (s *Service) Validate(ctx context.Context, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidSession
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidSession
	}

	exists, err := s.redisClient.Exists(ctx, sessionKey(claims.UserID, claims.SessionID)).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrSessionRevoked
	}

	return claims, nil
}

// Revoke removes the session from the whitelist. The cookie may live on in
// the browser but will no longer validate.
func (s *Service) Revoke(ctx context.Context, claims *Claims) error {
	return s.redisClient.Del(ctx, sessionKey(claims.UserID, claims.SessionID)).Err()
}

// Cookie builds the session cookie for a signed token. An empty token with
// maxAge < 0 clears the cookie.
func (s *Service) Cookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Expiry returns the configured session lifetime.
func (s *Service) Expiry() time.Duration {
	return s.config.Expiry
}

// AddFlash queues a one-shot notice for the session, shown on the next page
// the user loads.
func (s *Service) AddFlash(ctx context.Context, sessionID, notice string) error {
	key := flashKey(sessionID)
	if err := s.redisClient.RPush(ctx, key, notice).Err(); err != nil {
		return err
	}
	return s.redisClient.Expire(ctx, key, flashTTL).Err()
}

// Flashes drains and returns all pending notices for the session.
func (s *Service) Flashes(ctx context.Context, sessionID string) ([]string, error) {
	key := flashKey(sessionID)
	notices, err := s.redisClient.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(notices) > 0 {
		if err := s.redisClient.Del(ctx, key).Err(); err != nil {
			return nil, err
		}
	}
	return notices, nil
}

func sessionKey(userID uint, sessionID string) string {
	return fmt.Sprintf("session:%d:%s", userID, sessionID)
}

func flashKey(sessionID string) string {
	return fmt.Sprintf("flash:%s", sessionID)
}
