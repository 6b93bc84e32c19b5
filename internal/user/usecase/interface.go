// Package usecase implements sign-up, sign-in and session authentication.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	outboxDomain "github.com/allisson/cardvault/internal/outbox/domain"
	"github.com/allisson/cardvault/internal/user/domain"
)

// SignUpInput contains the input data for user registration
type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInInput contains the credentials exchanged for a session token
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UseCase defines the user and session operations
type UseCase interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.User, error)
	SignIn(ctx context.Context, input SignInInput) (*domain.SignInOutput, error)
	SignOut(ctx context.Context, plainToken string) error
	Authenticate(ctx context.Context, plainToken string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// UserRepository defines user persistence
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SessionRepository defines session persistence
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time) error
}

// OutboxEventRepository is the write side of the outbox used inside user transactions
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}
