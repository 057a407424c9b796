package service

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/swiftbill/be-invoicing/internal/apperrors"
	"github.com/swiftbill/be-invoicing/internal/billing"
	"github.com/swiftbill/be-invoicing/internal/client"
	"github.com/swiftbill/be-invoicing/internal/repository"
)

// SettingsService manages the per-owner business profile and tax defaults.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	uploads      *client.UploadClient
	log          zerolog.Logger
}

// NewSettingsService creates a new settings service. uploads may be nil
// when no upload endpoint is configured.
func NewSettingsService(
	settingsRepo *repository.SettingsRepository,
	uploads *client.UploadClient,
	log zerolog.Logger,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		uploads:      uploads,
		log:          log,
	}
}

// SettingsRequest represents an update settings request.
type SettingsRequest struct {
	BusinessName              string  `json:"business_name"`
	BusinessLogo              string  `json:"business_logo"`
	DefaultVATPercent         float64 `json:"default_vat"`
	DefaultWithholdingPercent float64 `json:"default_withholding_tax"`
	Currency                  string  `json:"currency"`
	DefaultAccountID          *string `json:"default_account_id"`
}

// GetSettings returns the owner's settings, falling back to application
// defaults for owners who never saved a profile.
func (s *SettingsService) GetSettings(ctx context.Context, ownerID string) (*billing.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		defaults := billing.DefaultSettings()
		return &defaults, nil
	}
	return settings, nil
}

// UpdateSettings overwrites the owner's settings. Changing tax defaults
// affects only invoices created afterwards.
func (s *SettingsService) UpdateSettings(ctx context.Context, ownerID string, req *SettingsRequest) (*billing.Settings, error) {
	if strings.TrimSpace(req.BusinessName) == "" {
		return nil, apperrors.InvalidInput("business_name", "business name is required")
	}
	if req.Currency == "" {
		req.Currency = billing.DefaultSettings().Currency
	}

	settings := &billing.Settings{
		BusinessName:              strings.TrimSpace(req.BusinessName),
		BusinessLogo:              req.BusinessLogo,
		DefaultVATPercent:         req.DefaultVATPercent,
		DefaultWithholdingPercent: req.DefaultWithholdingPercent,
		Currency:                  req.Currency,
		DefaultAccountID:          req.DefaultAccountID,
	}
	if err := s.settingsRepo.Upsert(ctx, ownerID, settings); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("owner_id", ownerID).
		Float64("default_vat", settings.DefaultVATPercent).
		Float64("default_withholding_tax", settings.DefaultWithholdingPercent).
		Msg("Settings updated")

	return settings, nil
}

// UploadLogo pushes the image to the upload endpoint and stores the
// resulting URL on the owner's settings.
func (s *SettingsService) UploadLogo(ctx context.Context, ownerID, filename string, file io.Reader) (string, error) {
	if s.uploads == nil {
		return "", apperrors.New(apperrors.CodeConflict, "image uploads are not configured")
	}

	result, err := s.uploads.UploadImage(ctx, client.UploadKindLogo, filename, file)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "failed to upload logo")
	}

	settings, err := s.GetSettings(ctx, ownerID)
	if err != nil {
		return "", err
	}
	settings.BusinessLogo = result.URL
	if err := s.settingsRepo.Upsert(ctx, ownerID, settings); err != nil {
		return "", err
	}

	s.log.Info().
		Str("owner_id", ownerID).
		Str("logo_url", result.URL).
		Msg("Business logo uploaded")

	return result.URL, nil
}
