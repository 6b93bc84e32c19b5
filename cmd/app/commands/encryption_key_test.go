package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
)

type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (cryptoDomain.KMSKeeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KMSKeeper), args.Error(1)
}

type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}

var envKeyPattern = regexp.MustCompile(`ENCRYPTION_KEY="([^"]+)"`)

func TestRunCreateEncryptionKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("env", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, nil, logger, &out, CreateEncryptionKeyOptions{})
		require.NoError(t, err)

		match := envKeyPattern.FindStringSubmatch(out.String())
		require.Len(t, match, 2)

		key, err := cryptoDomain.ParseSecretKey(match[1])
		require.NoError(t, err)
		assert.Len(t, key, cryptoDomain.KeySize)
		assert.Contains(t, out.String(), `ENCRYPTION_KEY_SOURCE="env"`)
	})

	t.Run("keyring", func(t *testing.T) {
		keyring.MockInit()

		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, nil, logger, &out, CreateEncryptionKeyOptions{
			Keyring:        true,
			KeyringService: "cardvault-test",
			KeyringAccount: "encryption-key",
		})
		require.NoError(t, err)
		assert.Contains(t, out.String(), `ENCRYPTION_KEY_SOURCE="keyring"`)
		assert.NotContains(t, out.String(), "ENCRYPTION_KEY=")

		stored, err := keyring.Get("cardvault-test", "encryption-key")
		require.NoError(t, err)
		key, err := cryptoDomain.ParseSecretKey(stored)
		require.NoError(t, err)
		assert.Len(t, key, cryptoDomain.KeySize)
	})

	t.Run("keyring-error", func(t *testing.T) {
		original := keyringStore
		defer func() { keyringStore = original }()
		keyringStore = func(service, account string, key []byte) error {
			return errors.New("keyring unavailable")
		}

		err := RunCreateEncryptionKey(ctx, nil, logger, &bytes.Buffer{}, CreateEncryptionKeyOptions{Keyring: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "keyring unavailable")
	})

	t.Run("kms", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://test").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.MatchedBy(func(key []byte) bool {
			return len(key) == cryptoDomain.KeySize
		})).Return([]byte("wrapped"), nil)
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, mockService, logger, &out, CreateEncryptionKeyOptions{
			KMSKeyURI: "base64key://test",
		})
		require.NoError(t, err)
		assert.Contains(t, out.String(), `ENCRYPTION_KEY_SOURCE="kms"`)
		assert.Contains(t, out.String(), `KMS_KEY_URI="base64key://test"`)
		assert.Contains(t, out.String(), base64.StdEncoding.EncodeToString([]byte("wrapped")))

		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})

	t.Run("kms-open-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockService.On("OpenKeeper", ctx, "bad://uri").Return(nil, errors.New("unsupported scheme"))

		err := RunCreateEncryptionKey(ctx, mockService, logger, &bytes.Buffer{}, CreateEncryptionKeyOptions{
			KMSKeyURI: "bad://uri",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})

	t.Run("kms-encrypt-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://test").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.Anything).Return(nil, errors.New("denied"))
		mockKeeper.On("Close").Return(nil)

		err := RunCreateEncryptionKey(ctx, mockService, logger, &bytes.Buffer{}, CreateEncryptionKeyOptions{
			KMSKeyURI: "base64key://test",
		})
		require.Error(t, err)
		mockKeeper.AssertExpectations(t)
	})

	t.Run("conflicting-flags", func(t *testing.T) {
		err := RunCreateEncryptionKey(ctx, nil, logger, &bytes.Buffer{}, CreateEncryptionKeyOptions{
			Keyring:   true,
			KMSKeyURI: "base64key://test",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be used together")
	})
}
