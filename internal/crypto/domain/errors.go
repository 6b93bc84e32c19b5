package domain

import (
	"errors"

	apperrors "github.com/allisson/cardvault/internal/errors"
)

// Envelope encryption error definitions.
//
// ErrDecryptionFailed deliberately covers every way an envelope can fail to open: a wrong
// key, a corrupted envelope and a tampered one look the same because CBC with PKCS#7
// carries no integrity tag. Callers must treat any of them as "cannot recover the record".
var (
	// ErrConfigurationFault indicates the secret key is missing or malformed.
	// It is detected at startup and is fatal until the configuration is fixed.
	ErrConfigurationFault = errors.New("encryption key configuration fault")

	// ErrMissingKey indicates no encryption key was configured.
	ErrMissingKey = apperrors.Wrap(ErrConfigurationFault, "encryption key is not set")

	// ErrInvalidKeySize indicates the decoded key is not exactly 32 bytes.
	ErrInvalidKeySize = apperrors.Wrap(ErrConfigurationFault, "invalid key size")

	// ErrInvalidKeyEncoding indicates the key is neither 64 hex characters nor base64.
	ErrInvalidKeyEncoding = apperrors.Wrap(ErrConfigurationFault, "invalid key encoding")

	// ErrUnsupportedKeySource indicates ENCRYPTION_KEY_SOURCE names an unknown source.
	ErrUnsupportedKeySource = apperrors.Wrap(ErrConfigurationFault, "unsupported key source")

	// ErrEncryptionFailed indicates an envelope could not be produced.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed indicates an envelope could not be opened.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrDecryptionFailed = apperrors.Wrap(apperrors.ErrInvalidInput, "decryption failed")

	// ErrMalformedEnvelope indicates a non-empty envelope shorter than the IV prefix.
	ErrMalformedEnvelope = apperrors.Wrap(ErrDecryptionFailed, "malformed envelope")
)
