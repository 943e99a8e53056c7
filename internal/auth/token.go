// Package auth holds the bearer token used by every API call. The store is
// passed explicitly to the API client instead of living in a package global.
package auth

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStore holds the current bearer token. A token is set at login (or from
// configuration) and cleared at logout, on expiry, or when the server rejects it.
type TokenStore struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	now       func() time.Time
	logger    *slog.Logger
}

func NewTokenStore(logger *slog.Logger) *TokenStore {
	return &TokenStore{now: time.Now, logger: logger}
}

// Set stores token. When the token is a JWT carrying an exp claim, the store
// reports no token once that time has passed. The signature is not checked;
// that is the server's job.
func (s *TokenStore) Set(token string) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	exp := expiryOf(token)

	s.mu.Lock()
	s.token = token
	s.expiresAt = exp
	s.mu.Unlock()

	if token != "" && !exp.IsZero() {
		s.logger.Debug("token set", "expires_at", exp)
	}
}

// Token returns the current token and whether one is usable.
func (s *TokenStore) Token() (string, bool) {
	s.mu.RLock()
	token, exp := s.token, s.expiresAt
	s.mu.RUnlock()

	if token == "" {
		return "", false
	}
	if !exp.IsZero() && !s.now().Before(exp) {
		s.logger.Info("token expired", "expired_at", exp)
		s.Clear()
		return "", false
	}
	return token, true
}

func (s *TokenStore) Clear() {
	s.mu.Lock()
	s.token = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
}

// ExpiresAt returns the expiry read from the token, or the zero time.
func (s *TokenStore) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func expiryOf(token string) time.Time {
	if strings.Count(token, ".") != 2 {
		return time.Time{}
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
