// Package domain defines the secret key, envelope constants and error taxonomy of the vault
// encryption layer.
package domain

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// ParseSecretKey decodes a configured key. Exactly 64 hex characters are read as hex,
// anything else as standard base64. The result must be KeySize bytes; every failure is an
// ErrConfigurationFault.
func ParseSecretKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrMissingKey
	}

	var key []byte
	if len(encoded) == KeySize*2 {
		if decoded, err := hex.DecodeString(encoded); err == nil {
			key = decoded
		}
	}

	if key == nil {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, ErrInvalidKeyEncoding
		}
		key = decoded
	}

	if len(key) != KeySize {
		Zero(key)
		return nil, ErrInvalidKeySize
	}

	return key, nil
}

// ParseKeySource converts a configured source name; the empty string means KeySourceEnv.
func ParseKeySource(source string) (KeySource, error) {
	switch KeySource(strings.ToLower(strings.TrimSpace(source))) {
	case "", KeySourceEnv:
		return KeySourceEnv, nil
	case KeySourceKeyring:
		return KeySourceKeyring, nil
	case KeySourceKMS:
		return KeySourceKMS, nil
	default:
		return "", ErrUnsupportedKeySource
	}
}
