package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/errors"
)

// Session is an issued bearer token. Only the SHA-256 hash of the token is stored.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsActive reports whether the session can still authenticate requests at now.
func (s *Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// SignInOutput is returned to the caller once; PlainToken is never persisted.
type SignInOutput struct {
	PlainToken string
	ExpiresAt  time.Time
}

var (
	// ErrSessionNotFound indicates no session matches the token hash.
	ErrSessionNotFound = errors.Wrap(errors.ErrUnauthorized, "session not found")

	// ErrSessionInactive indicates the session expired or was revoked.
	ErrSessionInactive = errors.Wrap(errors.ErrUnauthorized, "session expired or revoked")
)
