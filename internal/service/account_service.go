package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/swiftbill/be-invoicing/internal/apperrors"
	"github.com/swiftbill/be-invoicing/internal/billing"
	"github.com/swiftbill/be-invoicing/internal/database"
	"github.com/swiftbill/be-invoicing/internal/repository"
)

// AccountService manages a user's bank accounts and the single-default
// invariant. Default reassignment moves the account flags and the settings
// pointer in one transaction so the two never disagree.
type AccountService struct {
	db           *database.DB
	accountRepo  *repository.AccountRepository
	settingsRepo *repository.SettingsRepository
	log          zerolog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(
	db *database.DB,
	accountRepo *repository.AccountRepository,
	settingsRepo *repository.SettingsRepository,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		db:           db,
		accountRepo:  accountRepo,
		settingsRepo: settingsRepo,
		log:          log,
	}
}

// AccountRequest represents an add or update account request.
type AccountRequest struct {
	ID            string `json:"id"`
	AccountName   string `json:"account_name"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountType   string `json:"account_type"`
	IsDefault     bool   `json:"is_default"`
}

func (r *AccountRequest) validate() error {
	if strings.TrimSpace(r.AccountName) == "" {
		return apperrors.InvalidInput("account_name", "account name is required")
	}
	if strings.TrimSpace(r.BankName) == "" {
		return apperrors.InvalidInput("bank_name", "bank name is required")
	}
	if strings.TrimSpace(r.AccountNumber) == "" {
		return apperrors.InvalidInput("account_number", "account number is required")
	}
	return nil
}

func (r *AccountRequest) accountType() billing.AccountType {
	if billing.AccountType(r.AccountType) == billing.AccountTypeSavings {
		return billing.AccountTypeSavings
	}
	return billing.AccountTypeCurrent
}

// ListAccounts returns the owner's bank accounts.
func (s *AccountService) ListAccounts(ctx context.Context, ownerID string) ([]billing.BankAccount, error) {
	return s.accountRepo.List(ctx, ownerID)
}

// AddAccount creates a bank account. An account flagged default displaces
// the current one; the first account an owner creates becomes the default
// implicitly.
func (s *AccountService) AddAccount(ctx context.Context, ownerID string, req *AccountRequest) (*billing.BankAccount, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	account := &billing.BankAccount{
		AccountName:   strings.TrimSpace(req.AccountName),
		BankName:      strings.TrimSpace(req.BankName),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		AccountType:   req.accountType(),
		IsDefault:     false,
	}
	if err := s.accountRepo.Insert(ctx, ownerID, account); err != nil {
		return nil, err
	}

	if req.IsDefault || len(existing) == 0 {
		if err := s.setDefault(ctx, ownerID, account.ID); err != nil {
			return nil, err
		}
		account.IsDefault = true
	}

	s.log.Info().
		Str("account_id", account.ID).
		Str("owner_id", ownerID).
		Str("bank_name", account.BankName).
		Bool("is_default", account.IsDefault).
		Msg("Bank account added")

	return account, nil
}

// UpdateAccount overwrites an account's details. Setting is_default routes
// through the default-selection rule so siblings are unset.
func (s *AccountService) UpdateAccount(ctx context.Context, ownerID string, req *AccountRequest) (*billing.BankAccount, error) {
	if req.ID == "" {
		return nil, apperrors.InvalidInput("id", "account id is required")
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	current, err := s.accountRepo.GetByID(ctx, req.ID, ownerID)
	if err != nil {
		return nil, err
	}

	account := &billing.BankAccount{
		ID:            req.ID,
		AccountName:   strings.TrimSpace(req.AccountName),
		BankName:      strings.TrimSpace(req.BankName),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		AccountType:   req.accountType(),
		IsDefault:     current.IsDefault,
	}
	if err := s.accountRepo.Update(ctx, ownerID, account); err != nil {
		return nil, err
	}

	if req.IsDefault && !current.IsDefault {
		if err := s.setDefault(ctx, ownerID, account.ID); err != nil {
			return nil, err
		}
		account.IsDefault = true
	}

	s.log.Info().
		Str("account_id", account.ID).
		Str("owner_id", ownerID).
		Msg("Bank account updated")

	return account, nil
}

// DeleteAccount removes an account. When the default is deleted and other
// accounts remain, the first remaining account (by creation order) becomes
// the new default; with none remaining the settings pointer clears.
func (s *AccountService) DeleteAccount(ctx context.Context, ownerID, id string) error {
	accounts, err := s.accountRepo.List(ctx, ownerID)
	if err != nil {
		return err
	}

	remaining := billing.RemoveAccount(accounts, id)
	if len(remaining) == len(accounts) {
		return apperrors.NotFound("bank account", id)
	}

	if err := s.accountRepo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	newDefault := billing.DefaultAccountID(remaining)
	oldDefault := billing.DefaultAccountID(accounts)
	switch {
	case newDefault == "":
		if err := s.settingsRepo.SetDefaultAccountID(ctx, s.db, ownerID, nil); err != nil {
			return err
		}
	case newDefault != oldDefault:
		if err := s.setDefault(ctx, ownerID, newDefault); err != nil {
			return err
		}
	}

	s.log.Info().
		Str("account_id", id).
		Str("owner_id", ownerID).
		Str("new_default", newDefault).
		Msg("Bank account deleted")

	return nil
}

// SetDefaultAccount makes the target the owner's single default account.
// Idempotent.
func (s *AccountService) SetDefaultAccount(ctx context.Context, ownerID, id string) error {
	if _, err := s.accountRepo.GetByID(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.setDefault(ctx, ownerID, id); err != nil {
		return err
	}

	s.log.Info().
		Str("account_id", id).
		Str("owner_id", ownerID).
		Msg("Default account set")

	return nil
}

func (s *AccountService) setDefault(ctx context.Context, ownerID, id string) error {
	return s.db.InTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.accountRepo.SetDefault(ctx, tx, ownerID, id); err != nil {
			return err
		}
		return s.settingsRepo.SetDefaultAccountID(ctx, tx, ownerID, &id)
	})
}
