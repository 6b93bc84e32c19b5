package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/cards/domain"
)

// ErrorCannotDecrypt marks a listed card whose envelope could not be opened.
const ErrorCannotDecrypt = "cannot_decrypt"

// CardResponse is the stored form of a card. The envelope is opaque to clients.
type CardResponse struct {
	ID        uuid.UUID `json:"id"`
	Envelope  string    `json:"envelope"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordResponse is the decrypted client record.
type RecordResponse struct {
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RevealedCardResponse is a stored card with either its record or an error code.
type RevealedCardResponse struct {
	CardResponse
	Record *RecordResponse `json:"record,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ListCardsResponse is a page of stored cards.
type ListCardsResponse struct {
	Data []CardResponse `json:"data"`
}

// ListRevealedCardsResponse is a page of revealed cards.
type ListRevealedCardsResponse struct {
	Data []RevealedCardResponse `json:"data"`
}

// MapCardToResponse converts a stored card to its response.
func MapCardToResponse(card *domain.StoredCard) CardResponse {
	return CardResponse{
		ID:        card.ID,
		Envelope:  card.Envelope,
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}
}

// MapRevealedCardToResponse converts a revealed card. The failure cause is reduced to
// ErrorCannotDecrypt.
func MapRevealedCardToResponse(card *domain.RevealedCard) RevealedCardResponse {
	response := RevealedCardResponse{CardResponse: MapCardToResponse(card.Stored)}
	if card.Err != nil || card.Card == nil {
		response.Error = ErrorCannotDecrypt
		return response
	}

	response.Record = &RecordResponse{
		FullName:    card.Card.FullName,
		PhoneNumber: card.Card.PhoneNumber,
		Email:       card.Card.Email,
		Address:     card.Card.Address,
		Notes:       card.Card.Notes,
		CreatedAt:   card.Card.CreatedAt,
		UpdatedAt:   card.Card.UpdatedAt,
	}
	return response
}

// MapCardsToListResponse converts stored cards to a list response.
func MapCardsToListResponse(cards []*domain.StoredCard) ListCardsResponse {
	data := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		data = append(data, MapCardToResponse(card))
	}
	return ListCardsResponse{Data: data}
}

// MapRevealedCardsToListResponse converts revealed cards to a list response.
func MapRevealedCardsToListResponse(cards []*domain.RevealedCard) ListRevealedCardsResponse {
	data := make([]RevealedCardResponse, 0, len(cards))
	for _, card := range cards {
		data = append(data, MapRevealedCardToResponse(card))
	}
	return ListRevealedCardsResponse{Data: data}
}
