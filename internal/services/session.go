package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"gymtrack_echo/internal/models"
)

// Sessions live for 5 days, matching the login cookie
const sessionTTL = 5 * 24 * time.Hour

// AuthContext identifies the authenticated caller for the duration of a
// request. Services take it explicitly instead of re-fetching the caller's
// user row per operation.
type AuthContext struct {
	UserID uint        `json:"user_id"`
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
}

// SessionStore keeps login sessions in Redis, keyed by an opaque token
type SessionStore struct {
	cache *RedisCache
}

// NewSessionStore creates a session store backed by the given cache
func NewSessionStore(cache *RedisCache) *SessionStore {
	return &SessionStore{cache: cache}
}

// Create opens a session for the user and returns its token
func (s *SessionStore) Create(ctx context.Context, user models.User) (string, error) {
	token := uuid.NewString()
	auth := AuthContext{
		UserID: user.ID,
		Name:   user.FullName(),
		Role:   user.Role,
	}
	if err := s.cache.Set(ctx, sessionKey(token), auth, sessionTTL); err != nil {
		return "", err
	}
	return token, nil
}

// Get resolves a token to its AuthContext. Returns nil for unknown or
// expired tokens.
func (s *SessionStore) Get(ctx context.Context, token string) (*AuthContext, error) {
	var auth AuthContext
	err := s.cache.Get(ctx, sessionKey(token), &auth)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

// Delete ends the session for the token
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, sessionKey(token))
}

func sessionKey(token string) string {
	return "session:" + token
}
