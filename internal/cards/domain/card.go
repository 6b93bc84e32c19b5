// Package domain defines the card record held by the vault and the stored form it takes
// once sealed.
//
// A Card only exists in plaintext inside a request. Persistence and transport see the
// StoredCard, whose Envelope is opaque and replaced wholesale on every update.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card is the plaintext client record.
type Card struct {
	FullName    string
	PhoneNumber string
	Email       string
	Address     string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StoredCard is the persisted form of a card: owner and server timestamps in the clear,
// the record itself sealed inside Envelope.
type StoredCard struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Envelope  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RevealedCard pairs a stored card with the outcome of opening it. Exactly one of Card and
// Err is set.
type RevealedCard struct {
	Stored *StoredCard
	Card   *Card
	Err    error
}

// Event types written to the outbox when an owner's cards change.
const (
	EventCardCreated = "card.created"
	EventCardUpdated = "card.updated"
	EventCardDeleted = "card.deleted"
)

// CardEvent is the outbox payload for card changes. It never carries the envelope.
type CardEvent struct {
	CardID  uuid.UUID `json:"card_id"`
	OwnerID uuid.UUID `json:"owner_id"`
}
