package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
)

// CreateEncryptionKeyOptions selects where a freshly generated key goes.
type CreateEncryptionKeyOptions struct {
	// Keyring stores the key in the OS keyring instead of printing it.
	Keyring        bool
	KeyringService string
	KeyringAccount string
	// KMSKeyURI, when set, prints the key wrapped by this KMS key.
	KMSKeyURI string
}

// keyringStore is swapped in tests.
var keyringStore = cryptoService.StoreKeyInKeyring

// RunCreateEncryptionKey generates a random 32-byte secret key and prints the environment
// variables that make the server use it. The key is zeroed once it has been written out.
func RunCreateEncryptionKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	opts CreateEncryptionKeyOptions,
) error {
	if opts.Keyring && opts.KMSKeyURI != "" {
		return fmt.Errorf("--keyring and --kms-key-uri cannot be used together")
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	switch {
	case opts.Keyring:
		if err := keyringStore(opts.KeyringService, opts.KeyringAccount, key); err != nil {
			return err
		}
		logger.Info("encryption key stored in keyring",
			slog.String("service", opts.KeyringService),
			slog.String("account", opts.KeyringAccount),
		)
		_, _ = fmt.Fprintln(writer, "# Encryption key stored in the OS keyring")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintln(writer, `ENCRYPTION_KEY_SOURCE="keyring"`)
		_, _ = fmt.Fprintf(writer, "KEYRING_SERVICE=\"%s\"\n", opts.KeyringService)
		_, _ = fmt.Fprintf(writer, "KEYRING_ACCOUNT=\"%s\"\n", opts.KeyringAccount)

	case opts.KMSKeyURI != "":
		keeper, err := kmsService.OpenKeeper(ctx, opts.KMSKeyURI)
		if err != nil {
			return fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
			}
		}()

		wrapped, err := cryptoService.WrapKey(ctx, keeper, key)
		if err != nil {
			return err
		}
		logger.Info("encryption key wrapped with KMS")
		_, _ = fmt.Fprintln(writer, "# Encryption key wrapped with KMS")
		_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintln(writer, `ENCRYPTION_KEY_SOURCE="kms"`)
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", opts.KMSKeyURI)
		_, _ = fmt.Fprintf(writer, "ENCRYPTION_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(wrapped))

	default:
		logger.Info("encryption key generated")
		_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintln(writer, `ENCRYPTION_KEY_SOURCE="env"`)
		_, _ = fmt.Fprintf(writer, "ENCRYPTION_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(key))
	}

	return nil
}
