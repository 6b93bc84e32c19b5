package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/cardvault/internal/cards/domain"
	cryptoDomain "github.com/allisson/cardvault/internal/crypto/domain"
	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
	outboxDomain "github.com/allisson/cardvault/internal/outbox/domain"
	appValidation "github.com/allisson/cardvault/internal/validation"
)

// Defaults used when callers pass a non-positive page size.
const (
	defaultWatchLimit  = 50
	defaultVerifyBatch = 100
)

// CardUseCase handles card business logic
type CardUseCase struct {
	txManager  database.TxManager
	cardRepo   CardRepository
	outboxRepo OutboxEventRepository
	sealer     Sealer
	subscriber ChangeSubscriber
	logger     *slog.Logger
}

// NewCardUseCase creates a new CardUseCase
func NewCardUseCase(
	txManager database.TxManager,
	cardRepo CardRepository,
	outboxRepo OutboxEventRepository,
	sealer Sealer,
	subscriber ChangeSubscriber,
	logger *slog.Logger,
) UseCase {
	return &CardUseCase{
		txManager:  txManager,
		cardRepo:   cardRepo,
		outboxRepo: outboxRepo,
		sealer:     sealer,
		subscriber: subscriber,
		logger:     logger,
	}
}

// normalizeCardInput trims the surrounding whitespace of every field except notes, which are
// kept as typed. Validation and sealing both see the normalized values.
func normalizeCardInput(input CardInput) CardInput {
	input.FullName = strings.TrimSpace(input.FullName)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	input.Email = strings.TrimSpace(input.Email)
	input.Address = strings.TrimSpace(input.Address)
	return input
}

func validateCardInput(input CardInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.FullName,
			validation.Required.Error("full name is required"),
			appValidation.NotBlank,
			validation.Length(2, 255).Error("full name must be between 2 and 255 characters"),
		),
		validation.Field(&input.PhoneNumber,
			validation.Required.Error("phone number is required"),
			appValidation.NotBlank,
			appValidation.PhoneNumber,
			validation.Length(5, 64).Error("phone number must be between 5 and 64 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Address,
			validation.Required.Error("address is required"),
			appValidation.NotBlank,
			validation.Length(5, 1024).Error("address must be between 5 and 1024 characters"),
		),
		validation.Field(&input.Notes,
			validation.Length(0, 4096).Error("notes must be at most 4096 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// now returns the current time at the millisecond precision the record format keeps, so a
// sealed record and its row carry identical timestamps.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func toRecord(input CardInput, createdAt, updatedAt time.Time) *domain.Card {
	return &domain.Card{
		FullName:    input.FullName,
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		Address:     input.Address,
		Notes:       input.Notes,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// writeEvent records a card change in the outbox. Must run inside the card transaction.
func (uc *CardUseCase) writeEvent(ctx context.Context, eventType string, card *domain.StoredCard) error {
	event, err := outboxDomain.NewOutboxEvent(eventType, domain.CardEvent{
		CardID:  card.ID,
		OwnerID: card.OwnerID,
	})
	if err != nil {
		return err
	}

	if err := uc.outboxRepo.Create(ctx, event); err != nil {
		return apperrors.Wrap(err, "failed to create outbox event")
	}
	return nil
}

// Create seals a new record and stores it with a card.created event in the same transaction
func (uc *CardUseCase) Create(ctx context.Context, ownerID uuid.UUID, input CardInput) (*domain.StoredCard, error) {
	input = normalizeCardInput(input)
	if err := validateCardInput(input); err != nil {
		return nil, err
	}

	ts := now()
	envelope, err := uc.sealer.Seal(toRecord(input, ts, ts))
	if err != nil {
		return nil, err
	}

	card := &domain.StoredCard{
		ID:        uuid.Must(uuid.NewV7()),
		OwnerID:   ownerID,
		Envelope:  envelope,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.cardRepo.Create(ctx, card); err != nil {
			return err
		}
		return uc.writeEvent(ctx, domain.EventCardCreated, card)
	})
	if err != nil {
		return nil, err
	}

	return card, nil
}

// Update replaces the whole envelope. The record keeps the card's original creation time and
// gets a fresh updatedAt; the previous envelope is never opened.
func (uc *CardUseCase) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	input CardInput,
) (*domain.StoredCard, error) {
	input = normalizeCardInput(input)
	if err := validateCardInput(input); err != nil {
		return nil, err
	}

	var card *domain.StoredCard
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := uc.cardRepo.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}

		ts := now()
		createdAt := existing.CreatedAt.UTC().Truncate(time.Millisecond)
		envelope, err := uc.sealer.Seal(toRecord(input, createdAt, ts))
		if err != nil {
			return err
		}

		existing.Envelope = envelope
		existing.UpdatedAt = ts
		if err := uc.cardRepo.UpdateEnvelope(ctx, existing); err != nil {
			return err
		}

		card = existing
		return uc.writeEvent(ctx, domain.EventCardUpdated, existing)
	})
	if err != nil {
		return nil, err
	}

	return card, nil
}

// Delete removes an owner's card and writes a card.deleted event in the same transaction
func (uc *CardUseCase) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.cardRepo.Delete(ctx, ownerID, id); err != nil {
			return err
		}
		return uc.writeEvent(ctx, domain.EventCardDeleted, &domain.StoredCard{ID: id, OwnerID: ownerID})
	})
}

// Reveal opens a single card. Decryption and record failures are returned as errors.
func (uc *CardUseCase) Reveal(ctx context.Context, ownerID, id uuid.UUID) (*domain.RevealedCard, error) {
	stored, err := uc.cardRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	card, err := uc.sealer.Open(stored.Envelope)
	if err != nil {
		return nil, err
	}

	return &domain.RevealedCard{Stored: stored, Card: card}, nil
}

// List returns the owner's sealed cards, newest first
func (uc *CardUseCase) List(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.StoredCard, error) {
	return uc.cardRepo.ListByOwner(ctx, ownerID, offset, limit)
}

// RevealAll lists and opens the owner's cards. A card that cannot be opened carries its
// error in RevealedCard.Err and does not affect the others.
func (uc *CardUseCase) RevealAll(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.RevealedCard, error) {
	stored, err := uc.cardRepo.ListByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}

	revealed := make([]*domain.RevealedCard, 0, len(stored))
	for _, s := range stored {
		card, err := uc.sealer.Open(s.Envelope)
		if err != nil {
			uc.logFailure("card cannot be opened", s, err)
			revealed = append(revealed, &domain.RevealedCard{Stored: s, Err: err})
			continue
		}
		revealed = append(revealed, &domain.RevealedCard{Stored: s, Card: card})
	}

	return revealed, nil
}

// Watch streams the owner's first page of cards: once immediately, then again after every
// change signal. The channel is closed when ctx is done or the subscription ends.
func (uc *CardUseCase) Watch(
	ctx context.Context,
	ownerID uuid.UUID,
	limit int,
) (<-chan []*domain.StoredCard, error) {
	if limit <= 0 {
		limit = defaultWatchLimit
	}

	// Subscribe before the first read so no change between the two is missed.
	signals, cancel := uc.subscriber.Subscribe(ownerID)

	snapshot, err := uc.cardRepo.ListByOwner(ctx, ownerID, 0, limit)
	if err != nil {
		cancel()
		return nil, err
	}
	if snapshot == nil {
		snapshot = []*domain.StoredCard{}
	}

	out := make(chan []*domain.StoredCard)
	go func() {
		defer close(out)
		defer cancel()

		for {
			if snapshot != nil {
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
				snapshot = nil
			}

			select {
			case <-ctx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
			}

			cards, err := uc.cardRepo.ListByOwner(ctx, ownerID, 0, limit)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if uc.logger != nil {
					uc.logger.Error("failed to refresh card list",
						slog.String("owner_id", ownerID.String()),
						slog.Any("error", err),
					)
				}
				continue
			}
			if cards == nil {
				cards = []*domain.StoredCard{}
			}
			snapshot = cards
		}
	}()

	return out, nil
}

// Verify opens every stored envelope in keyset pages of batchSize and reports the ones that fail.
// Failures never stop the scan; only storage errors do.
func (uc *CardUseCase) Verify(ctx context.Context, batchSize int) (*VerifyReport, error) {
	if batchSize <= 0 {
		batchSize = defaultVerifyBatch
	}

	report := &VerifyReport{Failures: make([]VerifyFailure, 0)}
	var last *domain.StoredCard
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := uc.cardRepo.ListAfter(ctx, last, batchSize)
		if err != nil {
			return nil, err
		}

		for _, s := range page {
			report.Total++
			if _, err := uc.sealer.Open(s.Envelope); err != nil {
				report.Failures = append(report.Failures, VerifyFailure{
					CardID:  s.ID,
					OwnerID: s.OwnerID,
					Reason:  failureReason(err),
				})
				continue
			}
			report.Readable++
		}

		if len(page) < batchSize {
			return report, nil
		}
		last = page[len(page)-1]
	}
}

// failureReason names the failure kind without exposing its cause.
func failureReason(err error) string {
	switch {
	case apperrors.Is(err, domain.ErrMalformedRecord):
		return "malformed_record"
	case apperrors.Is(err, cryptoDomain.ErrDecryptionFailed):
		return "decryption_failed"
	default:
		return "unknown"
	}
}

func (uc *CardUseCase) logFailure(msg string, card *domain.StoredCard, err error) {
	if uc.logger == nil {
		return
	}
	uc.logger.Warn(msg,
		slog.String("card_id", card.ID.String()),
		slog.String("owner_id", card.OwnerID.String()),
		slog.String("reason", failureReason(err)),
	)
}
