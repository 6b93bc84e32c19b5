package domain

import "context"

// KMSKeeper is the subset of *secrets.Keeper the vault needs to wrap and unwrap its key.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
