// Package repository provides PostgreSQL and MySQL persistence for sealed cards.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/cards/domain"
	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
)

// PostgreSQLCardRepository handles card persistence for PostgreSQL
type PostgreSQLCardRepository struct {
	db *sql.DB
}

// NewPostgreSQLCardRepository creates a new PostgreSQLCardRepository
func NewPostgreSQLCardRepository(db *sql.DB) *PostgreSQLCardRepository {
	return &PostgreSQLCardRepository{db: db}
}

// Create inserts a new sealed card
func (r *PostgreSQLCardRepository) Create(ctx context.Context, card *domain.StoredCard) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO cards (id, owner_id, envelope, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx, query, card.ID, card.OwnerID, card.Envelope, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create card")
	}
	return nil
}

// GetByID retrieves a card owned by ownerID
func (r *PostgreSQLCardRepository) GetByID(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*domain.StoredCard, error) {
	var card domain.StoredCard
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, owner_id, envelope, created_at, updated_at
			  FROM cards WHERE id = $1 AND owner_id = $2`

	err := querier.QueryRowContext(ctx, query, id, ownerID).Scan(
		&card.ID, &card.OwnerID, &card.Envelope, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get card by id")
	}

	return &card, nil
}

// UpdateEnvelope replaces the envelope and updated_at of a card owned by card.OwnerID
func (r *PostgreSQLCardRepository) UpdateEnvelope(ctx context.Context, card *domain.StoredCard) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE cards SET envelope = $1, updated_at = $2
			  WHERE id = $3 AND owner_id = $4`

	result, err := querier.ExecContext(ctx, query, card.Envelope, card.UpdatedAt, card.ID, card.OwnerID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update card")
	}
	return checkAffected(result, "failed to update card")
}

// Delete removes a card owned by ownerID
func (r *PostgreSQLCardRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM cards WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete card")
	}
	return checkAffected(result, "failed to delete card")
}

// ListByOwner returns the owner's cards, newest first
func (r *PostgreSQLCardRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.StoredCard, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, owner_id, envelope, created_at, updated_at
			  FROM cards WHERE owner_id = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list cards")
	}
	defer func() {
		_ = rows.Close()
	}()

	cards := make([]*domain.StoredCard, 0)
	for rows.Next() {
		var card domain.StoredCard
		if err := rows.Scan(&card.ID, &card.OwnerID, &card.Envelope, &card.CreatedAt, &card.UpdatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan card")
		}
		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate cards")
	}

	return cards, nil
}

// ListAfter returns up to limit cards ordered by (created_at, id), starting after the given
// card. A nil after starts from the beginning. Paging by key instead of offset keeps a scan
// from skipping rows when cards are deleted while it runs.
func (r *PostgreSQLCardRepository) ListAfter(
	ctx context.Context,
	after *domain.StoredCard,
	limit int,
) ([]*domain.StoredCard, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, owner_id, envelope, created_at, updated_at
			  FROM cards ORDER BY created_at ASC, id ASC
			  LIMIT $1`
	args := []any{limit}
	if after != nil {
		query = `SELECT id, owner_id, envelope, created_at, updated_at
				 FROM cards WHERE (created_at, id) > ($1, $2)
				 ORDER BY created_at ASC, id ASC
				 LIMIT $3`
		args = []any{after.CreatedAt, after.ID, limit}
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list all cards")
	}
	defer func() {
		_ = rows.Close()
	}()

	cards := make([]*domain.StoredCard, 0)
	for rows.Next() {
		var card domain.StoredCard
		if err := rows.Scan(&card.ID, &card.OwnerID, &card.Envelope, &card.CreatedAt, &card.UpdatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan card")
		}
		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate cards")
	}

	return cards, nil
}

// checkAffected turns a zero-row update or delete into ErrCardNotFound. Cards owned by
// someone else are indistinguishable from missing ones.
func checkAffected(result sql.Result, errMsg string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, errMsg)
	}
	if affected == 0 {
		return domain.ErrCardNotFound
	}
	return nil
}
