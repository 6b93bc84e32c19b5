package domain

import (
	"github.com/allisson/cardvault/internal/errors"
)

// Card-specific error definitions.
var (
	// ErrCardNotFound indicates the card does not exist or belongs to another owner.
	ErrCardNotFound = errors.Wrap(errors.ErrNotFound, "card not found")

	// ErrMalformedRecord indicates decrypted text is not a well-formed card record.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrMalformedRecord = errors.Wrap(errors.ErrInvalidInput, "malformed card record")
)
