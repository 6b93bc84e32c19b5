package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

// KeyLoaderConfig describes where the secret key comes from.
type KeyLoaderConfig struct {
	Source cryptoDomain.KeySource
	// EncodedKey is ENCRYPTION_KEY: the raw key for the env source, the KMS ciphertext
	// (base64) for the kms source. Unused for the keyring source.
	EncodedKey     string
	KMSKeyURI      string
	KeyringService string
	KeyringAccount string
}

type keyLoader struct {
	cfg        KeyLoaderConfig
	kmsService KMSService
}

// NewKeyLoader creates a KeyLoader for the configured source.
func NewKeyLoader(cfg KeyLoaderConfig, kmsService KMSService) KeyLoader {
	return &keyLoader{
		cfg:        cfg,
		kmsService: kmsService,
	}
}

// Load resolves the 32-byte secret key. Every failure wraps ErrConfigurationFault.
func (l *keyLoader) Load(ctx context.Context) ([]byte, error) {
	switch l.cfg.Source {
	case "", cryptoDomain.KeySourceEnv:
		return cryptoDomain.ParseSecretKey(l.cfg.EncodedKey)
	case cryptoDomain.KeySourceKeyring:
		return l.loadFromKeyring()
	case cryptoDomain.KeySourceKMS:
		return l.loadFromKMS(ctx)
	default:
		return nil, cryptoDomain.ErrUnsupportedKeySource
	}
}

func (l *keyLoader) loadFromKeyring() ([]byte, error) {
	encoded, err := keyring.Get(l.cfg.KeyringService, l.cfg.KeyringAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, cryptoDomain.ErrMissingKey
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read keyring: %w", cryptoDomain.ErrConfigurationFault, err)
	}
	return cryptoDomain.ParseSecretKey(encoded)
}

func (l *keyLoader) loadFromKMS(ctx context.Context) ([]byte, error) {
	if l.cfg.KMSKeyURI == "" {
		return nil, fmt.Errorf("%w: KMS_KEY_URI is required for the kms key source",
			cryptoDomain.ErrConfigurationFault)
	}

	encoded := strings.TrimSpace(l.cfg.EncodedKey)
	if encoded == "" {
		return nil, cryptoDomain.ErrMissingKey
	}

	wrapped, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidKeyEncoding
	}

	keeper, err := l.kmsService.OpenKeeper(ctx, l.cfg.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrConfigurationFault, err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	return UnwrapKey(ctx, keeper, wrapped)
}

// StoreKeyInKeyring saves a base64 encoded key under service/account in the OS keyring.
func StoreKeyInKeyring(service, account string, key []byte) error {
	if len(key) != cryptoDomain.KeySize {
		return cryptoDomain.ErrInvalidKeySize
	}
	if err := keyring.Set(service, account, base64.StdEncoding.EncodeToString(key)); err != nil {
		return fmt.Errorf("failed to store key in keyring: %w", err)
	}
	return nil
}
