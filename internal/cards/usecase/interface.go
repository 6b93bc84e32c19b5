// Package usecase implements the card vault operations: sealing records on write, opening
// them on demand and serving live per-owner listings.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/cards/domain"
	outboxDomain "github.com/allisson/cardvault/internal/outbox/domain"
)

// CardInput is the plaintext submitted on create and update.
type CardInput struct {
	FullName    string
	PhoneNumber string
	Email       string
	Address     string
	Notes       string
}

// VerifyFailure identifies a stored card that cannot be opened with the current key.
type VerifyFailure struct {
	CardID  uuid.UUID `json:"card_id"`
	OwnerID uuid.UUID `json:"owner_id"`
	Reason  string    `json:"reason"`
}

// VerifyReport summarizes a scan over every stored envelope.
type VerifyReport struct {
	Total    int             `json:"total"`
	Readable int             `json:"readable"`
	Failures []VerifyFailure `json:"failures"`
}

// UseCase defines the card operations. Every operation is scoped to ownerID except Verify,
// which is an operator task.
type UseCase interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CardInput) (*domain.StoredCard, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input CardInput) (*domain.StoredCard, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	Reveal(ctx context.Context, ownerID, id uuid.UUID) (*domain.RevealedCard, error)
	List(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*domain.StoredCard, error)
	RevealAll(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*domain.RevealedCard, error)
	Watch(ctx context.Context, ownerID uuid.UUID, limit int) (<-chan []*domain.StoredCard, error)
	Verify(ctx context.Context, batchSize int) (*VerifyReport, error)
}

// CardRepository defines sealed card persistence
type CardRepository interface {
	Create(ctx context.Context, card *domain.StoredCard) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.StoredCard, error)
	UpdateEnvelope(ctx context.Context, card *domain.StoredCard) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*domain.StoredCard, error)
	ListAfter(ctx context.Context, after *domain.StoredCard, limit int) ([]*domain.StoredCard, error)
}

// OutboxEventRepository is the write side of the outbox used inside card transactions
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// Sealer turns a card record into an envelope and back.
type Sealer interface {
	Seal(card *domain.Card) (string, error)
	Open(envelope string) (*domain.Card, error)
}

// ChangeSubscriber delivers a signal whenever an owner's cards change.
type ChangeSubscriber interface {
	Subscribe(ownerID uuid.UUID) (<-chan struct{}, func())
}
