package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cardsUseCase "github.com/allisson/cardvault/internal/cards/usecase"
	cardMocks "github.com/allisson/cardvault/internal/cards/usecase/mocks"
)

func TestRunVerifyCards(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cardID := uuid.New()
	ownerID := uuid.New()
	failing := &cardsUseCase.VerifyReport{
		Total:    3,
		Readable: 2,
		Failures: []cardsUseCase.VerifyFailure{
			{CardID: cardID, OwnerID: ownerID, Reason: "decryption_failed"},
		},
	}

	t.Run("text-all-readable", func(t *testing.T) {
		mockUseCase := &cardMocks.MockUseCase{}
		mockUseCase.On("Verify", ctx, 100).
			Return(&cardsUseCase.VerifyReport{Total: 2, Readable: 2, Failures: []cardsUseCase.VerifyFailure{}}, nil)

		var out bytes.Buffer
		err := RunVerifyCards(ctx, mockUseCase, logger, &out, 100, "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Cards scanned:  2")
		assert.Contains(t, out.String(), "All cards can be opened")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("text-with-failures", func(t *testing.T) {
		mockUseCase := &cardMocks.MockUseCase{}
		mockUseCase.On("Verify", ctx, 10).Return(failing, nil)

		var out bytes.Buffer
		err := RunVerifyCards(ctx, mockUseCase, logger, &out, 10, "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 card(s) could not be opened")
		assert.Contains(t, out.String(), cardID.String())
		assert.Contains(t, out.String(), "decryption_failed")
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &cardMocks.MockUseCase{}
		mockUseCase.On("Verify", ctx, 100).Return(failing, nil)

		var out bytes.Buffer
		err := RunVerifyCards(ctx, mockUseCase, logger, &out, 100, "json")
		require.Error(t, err)

		var report cardsUseCase.VerifyReport
		require.NoError(t, json.Unmarshal(out.Bytes(), &report))
		assert.Equal(t, 3, report.Total)
		require.Len(t, report.Failures, 1)
		assert.Equal(t, cardID, report.Failures[0].CardID)
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &cardMocks.MockUseCase{}
		mockUseCase.On("Verify", ctx, 100).Return(nil, errors.New("connection refused"))

		var out bytes.Buffer
		err := RunVerifyCards(ctx, mockUseCase, logger, &out, 100, "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to verify cards")
		assert.Empty(t, out.String())
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunVerifyCards(ctx, &cardMocks.MockUseCase{}, logger, &bytes.Buffer{}, 100, "yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})
}
