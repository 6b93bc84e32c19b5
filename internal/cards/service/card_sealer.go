package service

import (
	cardsDomain "github.com/allisson/cardvault/internal/cards/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
)

// CardSealer composes the record codec with an envelope codec.
type CardSealer struct {
	codec   cryptoService.Codec
	records RecordCodec
}

// NewCardSealer creates a CardSealer over the given envelope codec.
func NewCardSealer(codec cryptoService.Codec) *CardSealer {
	return &CardSealer{codec: codec}
}

// Seal renders card to text and encrypts it.
func (s *CardSealer) Seal(card *cardsDomain.Card) (string, error) {
	text, err := s.records.ToText(card)
	if err != nil {
		return "", err
	}
	return s.codec.Seal(text)
}

// Open decrypts envelope and parses the record. An empty envelope opens to empty text,
// which is not a record, so it fails with ErrMalformedRecord.
func (s *CardSealer) Open(envelope string) (*cardsDomain.Card, error) {
	text, err := s.codec.Open(envelope)
	if err != nil {
		return nil, err
	}
	return s.records.FromText(text)
}
