// Package service implements the vault envelope codec (AES-256-CBC with PKCS#7 padding) and
// the loaders that acquire the secret key at startup.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// Codec turns text into a self-describing envelope string and back.
//
// Implementations must be safe for concurrent use and must not log or retain plaintext.
type Codec interface {
	// Seal encrypts plaintext into an envelope. Empty plaintext yields an empty envelope.
	Seal(plaintext string) (string, error)

	// Open decrypts an envelope produced by Seal. An empty envelope yields empty text.
	Open(envelope string) (string, error)
}

// KeyLoader resolves the vault secret key from its configured source.
type KeyLoader interface {
	Load(ctx context.Context) ([]byte, error)
}

// KMSService opens KMS keepers used to unwrap the secret key.
type KMSService interface {
	// OpenKeeper opens a keeper for the KMS provider addressed by keyURI.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
