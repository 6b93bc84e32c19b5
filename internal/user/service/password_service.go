package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/cardvault/internal/errors"
)

// PasswordService hashes and verifies user passwords.
type PasswordService interface {
	HashPassword(plain string) (string, error)
	ComparePassword(plain, hashed string) bool
}

type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService backed by Argon2id with the interactive policy.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &passwordService{hasher: hasher}, nil
}

// HashPassword returns the encoded Argon2id hash of plain.
func (s *passwordService) HashPassword(plain string) (string, error) {
	hashed, err := s.hasher.Hash([]byte(plain))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashed, nil
}

// ComparePassword reports whether plain matches hashed. Malformed hashes never match.
func (s *passwordService) ComparePassword(plain, hashed string) bool {
	ok, err := s.hasher.Verify([]byte(plain), hashed)
	if err != nil {
		return false
	}
	return ok
}
