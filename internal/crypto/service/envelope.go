package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// EnvelopeCodec implements Codec using AES-256-CBC with PKCS#7 padding.
//
// Envelope format:
//
//	hex(IV)  || base64(ciphertext)
//	32 chars    StdEncoding, padded
//
// The fixed-length hex prefix is the only delimiter. A fresh random IV is drawn for every
// Seal call, so sealing the same text twice yields different envelopes.
//
// The mode carries no authentication tag. A wrong key, a corrupted envelope and a tampered
// envelope all surface as ErrDecryptionFailed, and a tampered envelope may even open to
// different text. The wire format is kept as-is for compatibility with stored envelopes.
//
// The codec only holds the expanded AES block, which is read-only after construction, so
// one instance may be shared by any number of goroutines.
type EnvelopeCodec struct {
	block cipher.Block
}

// NewEnvelopeCodec creates a codec bound to a 32-byte key. A key of any other length is an
// ErrInvalidKeySize configuration fault.
func NewEnvelopeCodec(key []byte) (*EnvelopeCodec, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrConfigurationFault, err)
	}

	return &EnvelopeCodec{block: block}, nil
}

// Seal encrypts plaintext into an envelope string.
func (e *EnvelopeCodec) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	iv := make([]byte, cryptoDomain.IVSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("%w: failed to generate iv: %w", cryptoDomain.ErrEncryptionFailed, err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	defer cryptoDomain.Zero(padded)

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(e.block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open decrypts an envelope produced by Seal.
func (e *EnvelopeCodec) Open(envelope string) (string, error) {
	if envelope == "" {
		return "", nil
	}

	if len(envelope) < cryptoDomain.IVHexLength {
		return "", cryptoDomain.ErrMalformedEnvelope
	}

	iv, err := hex.DecodeString(envelope[:cryptoDomain.IVHexLength])
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	ciphertext, err := base64.StdEncoding.DecodeString(envelope[cryptoDomain.IVHexLength:])
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(e.block, iv).CryptBlocks(padded, ciphertext)
	defer cryptoDomain.Zero(padded)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	if !utf8.Valid(plaintext) {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// Seal encrypts plaintext under key without keeping a codec around. A key of the wrong
// length is reported as ErrEncryptionFailed wrapping ErrInvalidKeySize.
func Seal(plaintext string, key []byte) (string, error) {
	codec, err := NewEnvelopeCodec(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoDomain.ErrEncryptionFailed, err)
	}
	return codec.Seal(plaintext)
}

// Open decrypts envelope under key without keeping a codec around. A key of the wrong
// length is reported as ErrDecryptionFailed wrapping ErrInvalidKeySize.
func Open(envelope string, key []byte) (string, error) {
	codec, err := NewEnvelopeCodec(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", cryptoDomain.ErrDecryptionFailed, err)
	}
	return codec.Open(envelope)
}
