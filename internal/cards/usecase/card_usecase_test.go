package usecase

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/allisson/cardvault/internal/cards/domain"
	cardsService "github.com/allisson/cardvault/internal/cards/service"
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	cryptoService "github.com/allisson/cardvault/internal/crypto/service"
	apperrors "github.com/allisson/cardvault/internal/errors"
	outboxDomain "github.com/allisson/cardvault/internal/outbox/domain"
	outboxUseCase "github.com/allisson/cardvault/internal/outbox/usecase"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

type mockCardRepository struct {
	mock.Mock
}

func (m *mockCardRepository) Create(ctx context.Context, card *domain.StoredCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *mockCardRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.StoredCard, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredCard), args.Error(1)
}

func (m *mockCardRepository) UpdateEnvelope(ctx context.Context, card *domain.StoredCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *mockCardRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *mockCardRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.StoredCard, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StoredCard), args.Error(1)
}

func (m *mockCardRepository) ListAfter(
	ctx context.Context,
	after *domain.StoredCard,
	limit int,
) ([]*domain.StoredCard, error) {
	args := m.Called(ctx, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StoredCard), args.Error(1)
}

type mockOutboxRepository struct {
	mock.Mock
}

func (m *mockOutboxRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type fixture struct {
	uc         UseCase
	txManager  *mockTxManager
	cardRepo   *mockCardRepository
	outboxRepo *mockOutboxRepository
	sealer     *cardsService.CardSealer
	broker     *outboxUseCase.Broker
}

func newSealer(t *testing.T) *cardsService.CardSealer {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	codec, err := cryptoService.NewEnvelopeCodec(key)
	require.NoError(t, err)
	return cardsService.NewCardSealer(codec)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		txManager:  &mockTxManager{},
		cardRepo:   &mockCardRepository{},
		outboxRepo: &mockOutboxRepository{},
		sealer:     newSealer(t),
		broker:     outboxUseCase.NewBroker(),
	}
	t.Cleanup(f.broker.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.uc = NewCardUseCase(f.txManager, f.cardRepo, f.outboxRepo, f.sealer, f.broker, logger)
	return f
}

func validInput() CardInput {
	return CardInput{
		FullName:    "John Doe",
		PhoneNumber: "+1 555 0100",
		Email:       "john@example.com",
		Address:     "1 Main Street",
		Notes:       "vip",
	}
}

func eventOfType(eventType string) any {
	return mock.MatchedBy(func(e *outboxDomain.OutboxEvent) bool {
		return e.EventType == eventType
	})
}

func TestCardUseCase_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.txManager.On("WithTx", ctx).Return(nil).Once()
		f.cardRepo.On("Create", ctx, mock.AnythingOfType("*domain.StoredCard")).Return(nil).Once()
		f.outboxRepo.On("Create", ctx, eventOfType(domain.EventCardCreated)).Return(nil).Once()

		card, err := f.uc.Create(ctx, ownerID, validInput())
		require.NoError(t, err)
		assert.Equal(t, ownerID, card.OwnerID)
		assert.NotEqual(t, uuid.Nil, card.ID)
		assert.Equal(t, card.CreatedAt, card.UpdatedAt)
		assert.NotContains(t, card.Envelope, "John Doe")

		record, err := f.sealer.Open(card.Envelope)
		require.NoError(t, err)
		assert.Equal(t, "John Doe", record.FullName)
		assert.Equal(t, "vip", record.Notes)
		assert.Equal(t, card.CreatedAt, record.CreatedAt)
		assert.Equal(t, card.UpdatedAt, record.UpdatedAt)

		f.cardRepo.AssertExpectations(t)
		f.outboxRepo.AssertExpectations(t)
	})

	t.Run("NotesAreOptional", func(t *testing.T) {
		f := newFixture(t)
		f.txManager.On("WithTx", ctx).Return(nil).Once()
		f.cardRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.outboxRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		input := validInput()
		input.Notes = ""
		_, err := f.uc.Create(ctx, ownerID, input)
		assert.NoError(t, err)
	})

	t.Run("PaddedFieldsAreTrimmedBeforeValidation", func(t *testing.T) {
		f := newFixture(t)
		f.txManager.On("WithTx", ctx).Return(nil).Once()
		f.cardRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.outboxRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		input := CardInput{
			FullName:    "  John Doe ",
			PhoneNumber: " +1 555 0100 ",
			Email:       " john.doe@example.com ",
			Address:     " 1 Main Street  ",
			Notes:       "  keep as typed ",
		}
		card, err := f.uc.Create(ctx, ownerID, input)
		require.NoError(t, err)

		record, err := f.sealer.Open(card.Envelope)
		require.NoError(t, err)
		assert.Equal(t, "John Doe", record.FullName)
		assert.Equal(t, "+1 555 0100", record.PhoneNumber)
		assert.Equal(t, "john.doe@example.com", record.Email)
		assert.Equal(t, "1 Main Street", record.Address)
		assert.Equal(t, "  keep as typed ", record.Notes)
	})

	t.Run("ValidationError", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*CardInput)
		}{
			{"short name", func(i *CardInput) { i.FullName = "J" }},
			{"blank name", func(i *CardInput) { i.FullName = "   " }},
			{"short phone", func(i *CardInput) { i.PhoneNumber = "123" }},
			{"phone with letters", func(i *CardInput) { i.PhoneNumber = "555-CALL-NOW" }},
			{"bad email", func(i *CardInput) { i.Email = "not-an-email" }},
			{"short address", func(i *CardInput) { i.Address = "abc" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				input := validInput()
				tt.mutate(&input)

				_, err := f.uc.Create(ctx, ownerID, input)
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				f.txManager.AssertNotCalled(t, "WithTx", mock.Anything)
			})
		}
	})

	t.Run("OutboxError", func(t *testing.T) {
		f := newFixture(t)
		f.txManager.On("WithTx", ctx).Return(nil).Once()
		f.cardRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.outboxRepo.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

		_, err := f.uc.Create(ctx, ownerID, validInput())
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to create outbox event")
	})

	t.Run("TransactionError", func(t *testing.T) {
		f := newFixture(t)
		f.txManager.On("WithTx", ctx).Return(assert.AnError).Once()

		_, err := f.uc.Create(ctx, ownerID, validInput())
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestCardUseCase_Update(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV7())
	id := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		createdAt := time.Date(2024, 1, 2, 3, 4, 5, 678000000, time.UTC)
		existing := &domain.StoredCard{
			ID:        id,
			OwnerID:   ownerID,
			Envelope:  "00112233445566778899aabbccddeeffAAAA",
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}

		f.txManager.On("WithTx", ctx).Return(nil).Once()
		f.cardRepo.On("GetByID", ctx, ownerID, id).Return(existing, nil).Once()
		f.cardRepo.On("UpdateEnvelope", ctx, existing).Return(nil).Once()
		f.outboxRepo.On("Create", ctx, eventOfType(domain.EventCardUpdated)).Return(nil).Once()

		input := validInput()
		input.FullName = "Jane Doe"
		card, err := f.uc.Update(ctx, ownerID, id, input)
		require.NoError(t, err)
		assert.Equal(t, createdAt, card.CreatedAt)
		assert.True(t, card.UpdatedAt.After(createdAt))

		record, err := f.sealer.Open(card.Envelope)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", record.FullName)
		assert.Equal(t, createdAt, record.CreatedAt)
		assert.Equal(t, card.UpdatedAt, record.UpdatedAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t)
		f.txManager.On("WithTx", ctx).Return(nil).Once()
		f.cardRepo.On("GetByID", ctx, ownerID, id).Return(nil, domain.ErrCardNotFound).Once()

		_, err := f.uc.Update(ctx, ownerID, id, validInput())
		assert.ErrorIs(t, err, domain.ErrCardNotFound)
		f.cardRepo.AssertNotCalled(t, "UpdateEnvelope", mock.Anything, mock.Anything)
	})

	t.Run("ValidationError", func(t *testing.T) {
		f := newFixture(t)
		input := validInput()
		input.Email = ""

		_, err := f.uc.Update(ctx, ownerID, id, input)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestCardUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV7())
	id := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.txManager.On("WithTx", ctx).Return(nil).Once()
		f.cardRepo.On("Delete", ctx, ownerID, id).Return(nil).Once()
		f.outboxRepo.On("Create", ctx, eventOfType(domain.EventCardDeleted)).Return(nil).Once()

		assert.NoError(t, f.uc.Delete(ctx, ownerID, id))
		f.outboxRepo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t)
		f.txManager.On("WithTx", ctx).Return(nil).Once()
		f.cardRepo.On("Delete", ctx, ownerID, id).Return(domain.ErrCardNotFound).Once()

		err := f.uc.Delete(ctx, ownerID, id)
		assert.ErrorIs(t, err, domain.ErrCardNotFound)
		f.outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func sealedCard(t *testing.T, sealer *cardsService.CardSealer, ownerID uuid.UUID, name string) *domain.StoredCard {
	t.Helper()
	ts := time.Now().UTC().Truncate(time.Millisecond)
	envelope, err := sealer.Seal(&domain.Card{
		FullName:    name,
		PhoneNumber: "12345",
		Email:       "a@example.com",
		Address:     "Somewhere 1",
		CreatedAt:   ts,
		UpdatedAt:   ts,
	})
	require.NoError(t, err)

	return &domain.StoredCard{
		ID:        uuid.Must(uuid.NewV7()),
		OwnerID:   ownerID,
		Envelope:  envelope,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func TestCardUseCase_Reveal(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		stored := sealedCard(t, f.sealer, ownerID, "John Doe")
		f.cardRepo.On("GetByID", ctx, ownerID, stored.ID).Return(stored, nil).Once()

		revealed, err := f.uc.Reveal(ctx, ownerID, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, stored, revealed.Stored)
		assert.Equal(t, "John Doe", revealed.Card.FullName)
		assert.NoError(t, revealed.Err)
	})

	t.Run("WrongKey", func(t *testing.T) {
		f := newFixture(t)
		stored := sealedCard(t, newSealer(t), ownerID, "John Doe")
		f.cardRepo.On("GetByID", ctx, ownerID, stored.ID).Return(stored, nil).Once()

		_, err := f.uc.Reveal(ctx, ownerID, stored.ID)
		assert.Error(t, err)
		assert.True(t,
			apperrors.Is(err, cryptoDomain.ErrDecryptionFailed) || apperrors.Is(err, domain.ErrMalformedRecord),
		)
	})

	t.Run("MalformedEnvelope", func(t *testing.T) {
		f := newFixture(t)
		stored := sealedCard(t, f.sealer, ownerID, "John Doe")
		stored.Envelope = "no-separator"
		f.cardRepo.On("GetByID", ctx, ownerID, stored.ID).Return(stored, nil).Once()

		_, err := f.uc.Reveal(ctx, ownerID, stored.ID)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.Must(uuid.NewV7())
		f.cardRepo.On("GetByID", ctx, ownerID, id).Return(nil, domain.ErrCardNotFound).Once()

		_, err := f.uc.Reveal(ctx, ownerID, id)
		assert.ErrorIs(t, err, domain.ErrCardNotFound)
	})
}

func TestCardUseCase_List(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV7())
	f := newFixture(t)
	cards := []*domain.StoredCard{sealedCard(t, f.sealer, ownerID, "John Doe")}

	f.cardRepo.On("ListByOwner", ctx, ownerID, 0, 10).Return(cards, nil).Once()

	got, err := f.uc.List(ctx, ownerID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, cards, got)
}

func TestCardUseCase_RevealAll(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV7())

	t.Run("FailuresAreIsolated", func(t *testing.T) {
		f := newFixture(t)
		good := sealedCard(t, f.sealer, ownerID, "John Doe")
		foreign := sealedCard(t, newSealer(t), ownerID, "Jane Doe")
		garbage := sealedCard(t, f.sealer, ownerID, "Jim Doe")
		garbage.Envelope = "zz:!!"
		another := sealedCard(t, f.sealer, ownerID, "Ann Doe")

		f.cardRepo.On("ListByOwner", ctx, ownerID, 0, 50).
			Return([]*domain.StoredCard{good, foreign, garbage, another}, nil).
			Once()

		revealed, err := f.uc.RevealAll(ctx, ownerID, 0, 50)
		require.NoError(t, err)
		require.Len(t, revealed, 4)

		assert.NoError(t, revealed[0].Err)
		assert.Equal(t, "John Doe", revealed[0].Card.FullName)

		assert.Error(t, revealed[1].Err)
		assert.Nil(t, revealed[1].Card)

		assert.ErrorIs(t, revealed[2].Err, cryptoDomain.ErrDecryptionFailed)
		assert.Nil(t, revealed[2].Card)

		assert.NoError(t, revealed[3].Err)
		assert.Equal(t, "Ann Doe", revealed[3].Card.FullName)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		f := newFixture(t)
		f.cardRepo.On("ListByOwner", ctx, ownerID, 0, 50).Return(nil, assert.AnError).Once()

		_, err := f.uc.RevealAll(ctx, ownerID, 0, 50)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func receive(t *testing.T, ch <-chan []*domain.StoredCard) []*domain.StoredCard {
	t.Helper()
	select {
	case cards, ok := <-ch:
		require.True(t, ok, "channel closed")
		return cards
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestCardUseCase_Watch(t *testing.T) {
	ownerID := uuid.Must(uuid.NewV7())

	t.Run("InitialSnapshotAndRefresh", func(t *testing.T) {
		f := newFixture(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		first := sealedCard(t, f.sealer, ownerID, "John Doe")
		second := sealedCard(t, f.sealer, ownerID, "Jane Doe")

		f.cardRepo.On("ListByOwner", mock.Anything, ownerID, 0, defaultWatchLimit).
			Return([]*domain.StoredCard{first}, nil).
			Once()
		f.cardRepo.On("ListByOwner", mock.Anything, ownerID, 0, defaultWatchLimit).
			Return([]*domain.StoredCard{second, first}, nil).
			Once()

		ch, err := f.uc.Watch(ctx, ownerID, 0)
		require.NoError(t, err)

		assert.Equal(t, []*domain.StoredCard{first}, receive(t, ch))
		assert.Equal(t, 1, f.broker.Subscribers(ownerID))

		f.broker.Publish(ownerID)
		assert.Equal(t, []*domain.StoredCard{second, first}, receive(t, ch))

		cancel()
		for range ch {
		}
		assert.Equal(t, 0, f.broker.Subscribers(ownerID))
	})

	t.Run("EmptyListIsStillDelivered", func(t *testing.T) {
		f := newFixture(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		f.cardRepo.On("ListByOwner", mock.Anything, ownerID, 0, 5).Return(nil, nil).Once()

		ch, err := f.uc.Watch(ctx, ownerID, 5)
		require.NoError(t, err)
		assert.Empty(t, receive(t, ch))

		cancel()
		for range ch {
		}
	})

	t.Run("OtherOwnersDoNotWake", func(t *testing.T) {
		f := newFixture(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		f.cardRepo.On("ListByOwner", mock.Anything, ownerID, 0, 5).
			Return([]*domain.StoredCard{}, nil).
			Once()

		ch, err := f.uc.Watch(ctx, ownerID, 5)
		require.NoError(t, err)
		receive(t, ch)

		f.broker.Publish(uuid.Must(uuid.NewV7()))

		select {
		case <-ch:
			t.Fatal("unexpected snapshot")
		case <-time.After(50 * time.Millisecond):
		}

		cancel()
		for range ch {
		}
		f.cardRepo.AssertNumberOfCalls(t, "ListByOwner", 1)
	})

	t.Run("BrokerClosed", func(t *testing.T) {
		f := newFixture(t)
		f.cardRepo.On("ListByOwner", mock.Anything, ownerID, 0, 5).
			Return([]*domain.StoredCard{}, nil).
			Once()

		ch, err := f.uc.Watch(context.Background(), ownerID, 5)
		require.NoError(t, err)
		receive(t, ch)

		f.broker.Close()
		for range ch {
		}
	})

	t.Run("InitialReadError", func(t *testing.T) {
		f := newFixture(t)
		f.cardRepo.On("ListByOwner", mock.Anything, ownerID, 0, 5).Return(nil, assert.AnError).Once()

		_, err := f.uc.Watch(context.Background(), ownerID, 5)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 0, f.broker.Subscribers(ownerID))
	})
}

func TestCardUseCase_Verify(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.Must(uuid.NewV7())

	t.Run("ScansEveryPage", func(t *testing.T) {
		f := newFixture(t)
		a := sealedCard(t, f.sealer, ownerID, "John Doe")
		b := sealedCard(t, newSealer(t), ownerID, "Jane Doe")
		c := sealedCard(t, f.sealer, ownerID, "Jim Doe")
		c.Envelope = ""

		f.cardRepo.On("ListAfter", ctx, (*domain.StoredCard)(nil), 2).Return([]*domain.StoredCard{a, b}, nil).Once()
		f.cardRepo.On("ListAfter", ctx, b, 2).Return([]*domain.StoredCard{c}, nil).Once()

		report, err := f.uc.Verify(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, report.Total)
		assert.Equal(t, 1, report.Readable)
		require.Len(t, report.Failures, 2)
		assert.Equal(t, b.ID, report.Failures[0].CardID)
		assert.Equal(t, c.ID, report.Failures[1].CardID)
		assert.Equal(t, "malformed_record", report.Failures[1].Reason)
	})

	t.Run("DeletionDuringScanSkipsNothing", func(t *testing.T) {
		f := newFixture(t)
		a := sealedCard(t, f.sealer, ownerID, "John Doe")
		b := sealedCard(t, f.sealer, ownerID, "Jane Doe")
		c := sealedCard(t, f.sealer, ownerID, "Jim Doe")
		d := sealedCard(t, f.sealer, ownerID, "Joan Doe")

		// a is deleted after the first page; the second page is still keyed on b.
		f.cardRepo.On("ListAfter", ctx, (*domain.StoredCard)(nil), 2).Return([]*domain.StoredCard{a, b}, nil).Once()
		f.cardRepo.On("ListAfter", ctx, b, 2).Return([]*domain.StoredCard{c, d}, nil).Once()
		f.cardRepo.On("ListAfter", ctx, d, 2).Return([]*domain.StoredCard{}, nil).Once()

		report, err := f.uc.Verify(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 4, report.Total)
		assert.Equal(t, 4, report.Readable)
		f.cardRepo.AssertExpectations(t)
	})

	t.Run("EmptyStore", func(t *testing.T) {
		f := newFixture(t)
		f.cardRepo.On("ListAfter", ctx, (*domain.StoredCard)(nil), defaultVerifyBatch).Return([]*domain.StoredCard{}, nil).Once()

		report, err := f.uc.Verify(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Total)
		assert.Empty(t, report.Failures)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		f := newFixture(t)
		f.cardRepo.On("ListAfter", ctx, (*domain.StoredCard)(nil), 10).Return(nil, assert.AnError).Once()

		_, err := f.uc.Verify(ctx, 10)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("Canceled", func(t *testing.T) {
		f := newFixture(t)
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := f.uc.Verify(canceled, 10)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "decryption_failed", failureReason(cryptoDomain.ErrMalformedEnvelope))
	assert.Equal(t, "malformed_record", failureReason(domain.ErrMalformedRecord))
	assert.Equal(t, "unknown", failureReason(assert.AnError))
}
