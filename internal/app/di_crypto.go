package app

import (
	"context"
	"fmt"
	"sync"

	cardsService "github.com/allisson/cardvault/internal/cards/service"
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
)

// cryptoComponents groups the key material and the codecs built on top of it.
type cryptoComponents struct {
	kmsService cryptoService.KMSService
	keyLoader  cryptoService.KeyLoader
	secretKey  []byte
	codec      cryptoService.Codec
	sealer     *cardsService.CardSealer

	kmsServiceInit sync.Once
	keyLoaderInit  sync.Once
	secretKeyInit  sync.Once
	codecInit      sync.Once
	sealerInit     sync.Once
}

// release zeroes the secret key held by the container.
func (cc *cryptoComponents) release() {
	cryptoDomain.Zero(cc.secretKey)
	cc.secretKey = nil
}

// KMSService returns the gocloud.dev backed KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.crypto.kmsServiceInit.Do(func() {
		c.crypto.kmsService = cryptoService.NewKMSService()
	})
	return c.crypto.kmsService
}

// KeyLoader returns the loader for the configured ENCRYPTION_KEY_SOURCE.
func (c *Container) KeyLoader() (cryptoService.KeyLoader, error) {
	err := c.resolve("keyLoader", &c.crypto.keyLoaderInit, func() error {
		source, err := cryptoDomain.ParseKeySource(c.config.EncryptionKeySource)
		if err != nil {
			return err
		}

		c.crypto.keyLoader = cryptoService.NewKeyLoader(cryptoService.KeyLoaderConfig{
			Source:         source,
			EncodedKey:     c.config.EncryptionKey,
			KMSKeyURI:      c.config.KMSKeyURI,
			KeyringService: c.config.KeyringService,
			KeyringAccount: c.config.KeyringAccount,
		}, c.KMSService())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.crypto.keyLoader, nil
}

// SecretKey loads the 32-byte secret key once. Failures wrap ErrConfigurationFault and are
// fatal to startup.
func (c *Container) SecretKey(ctx context.Context) ([]byte, error) {
	err := c.resolve("secretKey", &c.crypto.secretKeyInit, func() error {
		loader, err := c.KeyLoader()
		if err != nil {
			return err
		}

		key, err := loader.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load secret key: %w", err)
		}
		c.crypto.secretKey = key
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.crypto.secretKey, nil
}

// EnvelopeCodec returns the AES-256-CBC envelope codec bound to the secret key.
func (c *Container) EnvelopeCodec(ctx context.Context) (cryptoService.Codec, error) {
	err := c.resolve("envelopeCodec", &c.crypto.codecInit, func() error {
		key, err := c.SecretKey(ctx)
		if err != nil {
			return err
		}

		codec, err := cryptoService.NewEnvelopeCodec(key)
		if err != nil {
			return fmt.Errorf("failed to create envelope codec: %w", err)
		}
		c.crypto.codec = codec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.crypto.codec, nil
}

// CardSealer returns the sealer that turns card records into envelopes and back.
func (c *Container) CardSealer(ctx context.Context) (*cardsService.CardSealer, error) {
	err := c.resolve("cardSealer", &c.crypto.sealerInit, func() error {
		codec, err := c.EnvelopeCodec(ctx)
		if err != nil {
			return err
		}
		c.crypto.sealer = cardsService.NewCardSealer(codec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.crypto.sealer, nil
}
