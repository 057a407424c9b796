package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/swiftbill/be-invoicing/internal/apperrors"
	"github.com/swiftbill/be-invoicing/internal/billing"
	"github.com/swiftbill/be-invoicing/internal/database"
)

// SettingsRepository handles the per-owner settings row.
type SettingsRepository struct {
	db *database.DB
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the owner's settings, or nil when none have been saved yet.
func (r *SettingsRepository) Get(ctx context.Context, ownerID string) (*billing.Settings, error) {
	query := `
		SELECT business_name, business_logo, default_vat, default_withholding_tax,
		       currency, default_account_id
		FROM settings
		WHERE user_id = $1
	`

	s := &billing.Settings{}
	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&s.BusinessName,
		&s.BusinessLogo,
		&s.DefaultVATPercent,
		&s.DefaultWithholdingPercent,
		&s.Currency,
		&s.DefaultAccountID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get settings")
	}
	return s, nil
}

// Upsert writes the owner's settings, creating the row on first save.
func (r *SettingsRepository) Upsert(ctx context.Context, ownerID string, s *billing.Settings) error {
	query := `
		INSERT INTO settings (user_id, business_name, business_logo, default_vat,
		                      default_withholding_tax, currency, default_account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET business_name = EXCLUDED.business_name,
		    business_logo = EXCLUDED.business_logo,
		    default_vat = EXCLUDED.default_vat,
		    default_withholding_tax = EXCLUDED.default_withholding_tax,
		    currency = EXCLUDED.currency,
		    default_account_id = EXCLUDED.default_account_id,
		    updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		ownerID,
		s.BusinessName,
		s.BusinessLogo,
		s.DefaultVATPercent,
		s.DefaultWithholdingPercent,
		s.Currency,
		s.DefaultAccountID,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to save settings")
	}
	return nil
}

// SetDefaultAccountID updates just the default-account pointer. The row may
// not exist yet for owners who never opened the settings screen; the upsert
// seeds it with the application defaults in that case. q may be the pool or
// an open transaction.
func (r *SettingsRepository) SetDefaultAccountID(ctx context.Context, q database.Querier, ownerID string, accountID *string) error {
	defaults := billing.DefaultSettings()
	query := `
		INSERT INTO settings (user_id, business_name, business_logo, default_vat,
		                      default_withholding_tax, currency, default_account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET default_account_id = EXCLUDED.default_account_id,
		    updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		ownerID,
		defaults.BusinessName,
		defaults.BusinessLogo,
		defaults.DefaultVATPercent,
		defaults.DefaultWithholdingPercent,
		defaults.Currency,
		accountID,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to update default account")
	}
	return nil
}
