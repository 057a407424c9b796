package repository

import (
	"context"

	"github.com/swiftbill/be-invoicing/internal/apperrors"
	"github.com/swiftbill/be-invoicing/internal/database"
)

// SequenceRepository issues per-owner, per-year invoice sequence numbers.
// The upsert is a single atomic statement, so concurrent creations by the
// same owner cannot draw the same value.
type SequenceRepository struct {
	db *database.DB
}

// NewSequenceRepository creates a new sequence repository.
func NewSequenceRepository(db *database.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next returns the next sequence value for the owner and year, starting
// at 1.
func (r *SequenceRepository) Next(ctx context.Context, ownerID string, year int) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (user_id, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, year) DO UPDATE
		SET last_value = invoice_sequences.last_value + 1,
		    updated_at = NOW()
		RETURNING last_value
	`

	var value int64
	if err := r.db.QueryRow(ctx, query, ownerID, year).Scan(&value); err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to advance invoice sequence")
	}
	return value, nil
}
