package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/swiftbill/be-invoicing/internal/apperrors"
	"github.com/swiftbill/be-invoicing/internal/billing"
	"github.com/swiftbill/be-invoicing/internal/database"
)

// AccountRepository handles bank account data operations.
type AccountRepository struct {
	db *database.DB
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, account_name, bank_name, account_number, account_type, is_default`

// List returns the owner's bank accounts in creation order.
func (r *AccountRepository) List(ctx context.Context, ownerID string) ([]billing.BankAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM bank_accounts
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list bank accounts")
	}
	defer rows.Close()

	accounts := make([]billing.BankAccount, 0)
	for rows.Next() {
		var (
			acc     billing.BankAccount
			accType string
		)
		if err := rows.Scan(&acc.ID, &acc.AccountName, &acc.BankName, &acc.AccountNumber, &accType, &acc.IsDefault); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan bank account")
		}
		acc.AccountType = billing.AccountType(accType)
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// GetByID retrieves one bank account for the owner.
func (r *AccountRepository) GetByID(ctx context.Context, id, ownerID string) (*billing.BankAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM bank_accounts
		WHERE id = $1 AND user_id = $2
	`

	var (
		acc     billing.BankAccount
		accType string
	)
	err := r.db.QueryRow(ctx, query, id, ownerID).
		Scan(&acc.ID, &acc.AccountName, &acc.BankName, &acc.AccountNumber, &accType, &acc.IsDefault)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("bank account", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get bank account")
	}
	acc.AccountType = billing.AccountType(accType)
	return &acc, nil
}

// Insert persists a new bank account.
func (r *AccountRepository) Insert(ctx context.Context, ownerID string, acc *billing.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (user_id, account_name, bank_name, account_number, account_type, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		ownerID,
		acc.AccountName,
		acc.BankName,
		acc.AccountNumber,
		string(acc.AccountType),
		acc.IsDefault,
	).Scan(&acc.ID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to create bank account")
	}
	return nil
}

// Update overwrites the account's editable fields.
func (r *AccountRepository) Update(ctx context.Context, ownerID string, acc *billing.BankAccount) error {
	query := `
		UPDATE bank_accounts
		SET account_name = $3, bank_name = $4, account_number = $5, account_type = $6,
		    is_default = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id
	`

	var returnedID string
	err := r.db.QueryRow(ctx, query,
		acc.ID,
		ownerID,
		acc.AccountName,
		acc.BankName,
		acc.AccountNumber,
		string(acc.AccountType),
		acc.IsDefault,
	).Scan(&returnedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("bank account", acc.ID)
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to update bank account")
	}
	return nil
}

// Delete removes a bank account.
func (r *AccountRepository) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bank_accounts WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to delete bank account")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("bank account", id)
	}
	return nil
}

// SetDefault flips the default flag to exactly the target account. The
// single UPDATE keeps the at-most-one-default invariant atomic within the
// accounts table; callers pass a transaction as q when the settings pointer
// must move in the same commit.
func (r *AccountRepository) SetDefault(ctx context.Context, q database.Querier, ownerID, targetID string) error {
	tag, err := q.Exec(ctx,
		`UPDATE bank_accounts SET is_default = (id = $2), updated_at = NOW() WHERE user_id = $1`,
		ownerID, targetID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to set default account")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("bank account", targetID)
	}
	return nil
}
