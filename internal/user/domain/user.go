// Package domain defines the user and session entities that back vault authentication.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/errors"
)

// EventUserCreated is written to the outbox when a user signs up.
const EventUserCreated = "user.created"

// User represents an account that owns cards.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserCreatedEvent is the outbox payload for EventUserCreated.
type UserCreatedEvent struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidCredentials is returned for both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
)
