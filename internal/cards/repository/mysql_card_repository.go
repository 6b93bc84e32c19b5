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

// MySQLCardRepository handles card persistence for MySQL. Ids are stored as BINARY(16).
type MySQLCardRepository struct {
	db *sql.DB
}

// NewMySQLCardRepository creates a new MySQLCardRepository
func NewMySQLCardRepository(db *sql.DB) *MySQLCardRepository {
	return &MySQLCardRepository{db: db}
}

// Create inserts a new sealed card
func (r *MySQLCardRepository) Create(ctx context.Context, card *domain.StoredCard) error {
	querier := database.GetTx(ctx, r.db)

	id, ownerID, err := marshalIDs(card.ID, card.OwnerID)
	if err != nil {
		return err
	}

	query := `INSERT INTO cards (id, owner_id, envelope, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, ownerID, card.Envelope, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create card")
	}
	return nil
}

// GetByID retrieves a card owned by ownerID
func (r *MySQLCardRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.StoredCard, error) {
	idBytes, ownerBytes, err := marshalIDs(id, ownerID)
	if err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, r.db)
	query := `SELECT id, owner_id, envelope, created_at, updated_at
			  FROM cards WHERE id = ? AND owner_id = ?`

	card, err := scanMySQLCard(querier.QueryRowContext(ctx, query, idBytes, ownerBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCardNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get card by id")
	}
	return card, nil
}

// UpdateEnvelope replaces the envelope and updated_at of a card owned by card.OwnerID
func (r *MySQLCardRepository) UpdateEnvelope(ctx context.Context, card *domain.StoredCard) error {
	idBytes, ownerBytes, err := marshalIDs(card.ID, card.OwnerID)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	query := `UPDATE cards SET envelope = ?, updated_at = ?
			  WHERE id = ? AND owner_id = ?`

	result, err := querier.ExecContext(ctx, query, card.Envelope, card.UpdatedAt, idBytes, ownerBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to update card")
	}
	return checkAffected(result, "failed to update card")
}

// Delete removes a card owned by ownerID
func (r *MySQLCardRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	idBytes, ownerBytes, err := marshalIDs(id, ownerID)
	if err != nil {
		return err
	}

	querier := database.GetTx(ctx, r.db)
	result, err := querier.ExecContext(ctx, `DELETE FROM cards WHERE id = ? AND owner_id = ?`, idBytes, ownerBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete card")
	}
	return checkAffected(result, "failed to delete card")
}

// ListByOwner returns the owner's cards, newest first
func (r *MySQLCardRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.StoredCard, error) {
	ownerBytes, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, owner_id, envelope, created_at, updated_at
			  FROM cards WHERE owner_id = ?
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	return r.list(ctx, query, "failed to list cards", ownerBytes, limit, offset)
}

// ListAfter returns up to limit cards ordered by (created_at, id), starting after the given
// card. A nil after starts from the beginning.
func (r *MySQLCardRepository) ListAfter(
	ctx context.Context,
	after *domain.StoredCard,
	limit int,
) ([]*domain.StoredCard, error) {
	if after == nil {
		query := `SELECT id, owner_id, envelope, created_at, updated_at
				  FROM cards ORDER BY created_at ASC, id ASC
				  LIMIT ?`
		return r.list(ctx, query, "failed to list all cards", limit)
	}

	idBytes, err := after.ID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	// Expanded rather than a row comparison so the (created_at, id) index is used.
	query := `SELECT id, owner_id, envelope, created_at, updated_at
			  FROM cards WHERE created_at > ? OR (created_at = ? AND id > ?)
			  ORDER BY created_at ASC, id ASC
			  LIMIT ?`
	return r.list(ctx, query, "failed to list all cards", after.CreatedAt, after.CreatedAt, idBytes, limit)
}

func (r *MySQLCardRepository) list(
	ctx context.Context,
	query string,
	errMsg string,
	args ...any,
) ([]*domain.StoredCard, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, errMsg)
	}
	defer func() {
		_ = rows.Close()
	}()

	cards := make([]*domain.StoredCard, 0)
	for rows.Next() {
		card, err := scanMySQLCard(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan card")
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate cards")
	}

	return cards, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLCard(row rowScanner) (*domain.StoredCard, error) {
	var card domain.StoredCard
	var idBytes, ownerBytes []byte

	if err := row.Scan(&idBytes, &ownerBytes, &card.Envelope, &card.CreatedAt, &card.UpdatedAt); err != nil {
		return nil, err
	}
	if err := card.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := card.OwnerID.UnmarshalBinary(ownerBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return &card, nil
}

func marshalIDs(id, ownerID uuid.UUID) ([]byte, []byte, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	ownerBytes, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	return idBytes, ownerBytes, nil
}
