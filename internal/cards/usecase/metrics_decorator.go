package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/cards/domain"
	"github.com/allisson/cardvault/internal/metrics"
)

const metricsDomain = "cards"

// useCaseWithMetrics decorates UseCase with metrics instrumentation.
type useCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &useCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *useCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, u.metrics, metricsDomain, operation, start, err)
}

// Create records metrics for card creation.
func (u *useCaseWithMetrics) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input CardInput,
) (*domain.StoredCard, error) {
	start := time.Now()
	card, err := u.next.Create(ctx, ownerID, input)
	u.record(ctx, "card_create", start, err)
	return card, err
}

// Update records metrics for card updates.
func (u *useCaseWithMetrics) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	input CardInput,
) (*domain.StoredCard, error) {
	start := time.Now()
	card, err := u.next.Update(ctx, ownerID, id, input)
	u.record(ctx, "card_update", start, err)
	return card, err
}

// Delete records metrics for card deletion.
func (u *useCaseWithMetrics) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	start := time.Now()
	err := u.next.Delete(ctx, ownerID, id)
	u.record(ctx, "card_delete", start, err)
	return err
}

// Reveal records metrics for single card decryption.
func (u *useCaseWithMetrics) Reveal(ctx context.Context, ownerID, id uuid.UUID) (*domain.RevealedCard, error) {
	start := time.Now()
	card, err := u.next.Reveal(ctx, ownerID, id)
	u.record(ctx, "card_reveal", start, err)
	return card, err
}

// List records metrics for listing sealed cards.
func (u *useCaseWithMetrics) List(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.StoredCard, error) {
	start := time.Now()
	cards, err := u.next.List(ctx, ownerID, offset, limit)
	u.record(ctx, "card_list", start, err)
	return cards, err
}

// RevealAll records metrics for batch decryption. Per-card failures count separately
// under card_open so the batch itself still reports success.
func (u *useCaseWithMetrics) RevealAll(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.RevealedCard, error) {
	start := time.Now()
	cards, err := u.next.RevealAll(ctx, ownerID, offset, limit)
	u.record(ctx, "card_reveal_all", start, err)

	for _, card := range cards {
		if card.Err != nil {
			u.metrics.RecordOperation(ctx, metricsDomain, "card_open", metrics.StatusError)
		}
	}
	return cards, err
}

// Watch records only the subscription attempt.
func (u *useCaseWithMetrics) Watch(
	ctx context.Context,
	ownerID uuid.UUID,
	limit int,
) (<-chan []*domain.StoredCard, error) {
	ch, err := u.next.Watch(ctx, ownerID, limit)
	u.metrics.RecordOperation(ctx, metricsDomain, "card_watch", metrics.Status(err))
	return ch, err
}

// Verify records metrics for the envelope scan.
func (u *useCaseWithMetrics) Verify(ctx context.Context, batchSize int) (*VerifyReport, error) {
	start := time.Now()
	report, err := u.next.Verify(ctx, batchSize)
	u.record(ctx, "card_verify", start, err)
	return report, err
}
