package service

import (
	"crypto/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cardsDomain "github.com/allisson/cardvault/internal/cards/domain"
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
)

func newTestSealer(t *testing.T) (*CardSealer, []byte) {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	codec, err := cryptoService.NewEnvelopeCodec(key)
	require.NoError(t, err)
	return NewCardSealer(codec), key
}

func TestCardSealer_RoundTrip(t *testing.T) {
	sealer, key := newTestSealer(t)

	envelope, err := sealer.Seal(johnDoe())
	require.NoError(t, err)
	assert.NotContains(t, envelope, "John Doe")

	card, err := sealer.Open(envelope)
	require.NoError(t, err)
	assert.Equal(t, johnDoe(), card)

	t.Run("envelope is the sealed canonical text", func(t *testing.T) {
		text, err := cryptoService.Open(envelope, key)
		require.NoError(t, err)
		assert.Equal(t, johnDoeText, text)
	})
}

func TestCardSealer_OpenEmptyEnvelope(t *testing.T) {
	sealer, _ := newTestSealer(t)

	card, err := sealer.Open("")
	assert.Nil(t, card)
	assert.ErrorIs(t, err, cardsDomain.ErrMalformedRecord)
}

func TestCardSealer_OpenWithWrongKey(t *testing.T) {
	sealer, _ := newTestSealer(t)
	other, _ := newTestSealer(t)

	envelope, err := sealer.Seal(johnDoe())
	require.NoError(t, err)

	card, err := other.Open(envelope)
	assert.Nil(t, card)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestCardSealer_OpenNonRecordText(t *testing.T) {
	sealer, key := newTestSealer(t)

	envelope, err := cryptoService.Seal("just some text", key)
	require.NoError(t, err)

	card, err := sealer.Open(envelope)
	assert.Nil(t, card)
	assert.ErrorIs(t, err, cardsDomain.ErrMalformedRecord)
}

func TestCardSealer_Concurrent(t *testing.T) {
	sealer, _ := newTestSealer(t)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			envelope, err := sealer.Seal(johnDoe())
			if !assert.NoError(t, err) {
				return
			}
			card, err := sealer.Open(envelope)
			if assert.NoError(t, err) {
				assert.Equal(t, johnDoe(), card)
			}
		}()
	}
	wg.Wait()
}
