package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swiftbill/be-invoicing/internal/apperrors"
	"github.com/swiftbill/be-invoicing/internal/billing"
	"github.com/swiftbill/be-invoicing/internal/client"
	"github.com/swiftbill/be-invoicing/internal/repository"
)

// InvoiceService handles invoice business logic. All monetary and status
// rules live in the billing package; this layer wires them to storage,
// settings defaults, and notifications.
type InvoiceService struct {
	invoiceRepo  *repository.InvoiceRepository
	sequenceRepo *repository.SequenceRepository
	accountRepo  *repository.AccountRepository
	settingsRepo *repository.SettingsRepository
	events       *client.NotificationPublisher
	log          zerolog.Logger
	now          func() time.Time
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoiceRepo *repository.InvoiceRepository,
	sequenceRepo *repository.SequenceRepository,
	accountRepo *repository.AccountRepository,
	settingsRepo *repository.SettingsRepository,
	events *client.NotificationPublisher,
	log zerolog.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		sequenceRepo: sequenceRepo,
		accountRepo:  accountRepo,
		settingsRepo: settingsRepo,
		events:       events,
		log:          log,
		now:          time.Now,
	}
}

// CreateInvoiceRequest represents a create invoice request.
type CreateInvoiceRequest struct {
	ClientName  string            `json:"client_name"`
	ClientEmail string            `json:"client_email"`
	ClientPhone string            `json:"client_phone"`
	Items       []LineItemRequest `json:"items"`
	DueDate     string            `json:"due_date"`
	AccountID   string            `json:"account_id"`
	// Rates default to the owner's settings when omitted; they are
	// captured into the invoice and never recalculated afterwards.
	VATPercent         *float64 `json:"vat_percent"`
	WithholdingPercent *float64 `json:"withholding_percent"`
}

// LineItemRequest represents one line of a create invoice request.
type LineItemRequest struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"price"`
	Total       *float64 `json:"total"`
}

// CreateInvoice validates the request, assembles the invoice record, and
// persists it.
func (s *InvoiceService) CreateInvoice(ctx context.Context, ownerID string, req *CreateInvoiceRequest) (*billing.Invoice, error) {
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, apperrors.InvalidInput("due_date", "invalid date, expected YYYY-MM-DD or RFC 3339")
	}

	settings, err := s.settingsRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		defaults := billing.DefaultSettings()
		settings = &defaults
	}

	rates := billing.TaxRates{
		VATPercent:         settings.DefaultVATPercent,
		WithholdingPercent: settings.DefaultWithholdingPercent,
	}
	if req.VATPercent != nil {
		rates.VATPercent = *req.VATPercent
	}
	if req.WithholdingPercent != nil {
		rates.WithholdingPercent = *req.WithholdingPercent
	}

	accounts, err := s.accountRepo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	items := make([]billing.LineItem, 0, len(req.Items))
	for _, line := range req.Items {
		total := math.NaN() // absent: recomputed as quantity*price
		if line.Total != nil {
			total = *line.Total
		}
		items = append(items, billing.LineItem{
			ID:          uuid.NewString(),
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Total:       total,
		})
	}

	now := s.now()
	year := now.Year()
	nextNumber := func() (string, error) {
		seq, err := s.sequenceRepo.Next(ctx, ownerID, year)
		if err != nil {
			return "", err
		}
		return billing.FormatInvoiceNumber(year, seq), nil
	}

	invoice, err := billing.AssembleInvoice(billing.InvoiceInput{
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		ClientPhone:     req.ClientPhone,
		Items:           items,
		DueDate:         dueDate,
		AccountID:       req.AccountID,
		HasBankAccounts: len(accounts) > 0,
	}, rates, nextNumber, now)
	if err != nil {
		return nil, err
	}
	invoice.OwnerID = ownerID

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.events.PublishInvoiceEvent(ctx, "invoice_created", ownerID, invoice.ID, invoice.InvoiceNumber, map[string]any{
		"total":    invoice.Total,
		"due_date": invoice.DueDate,
	})

	s.log.Info().
		Str("invoice_id", invoice.ID).
		Str("invoice_number", invoice.InvoiceNumber).
		Str("owner_id", ownerID).
		Float64("total", invoice.Total).
		Int("line_count", len(invoice.Items)).
		Msg("Invoice created")

	return invoice, nil
}

// GetInvoice retrieves an invoice with its display status resolved against
// the current clock. The stored status is not mutated here; reconciliation
// of unpaid-to-overdue transitions is the sweep's job.
func (s *InvoiceService) GetInvoice(ctx context.Context, id, ownerID string) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	invoice.Status = billing.ResolveStatus(invoice.DueDate, invoice.Status, s.now())
	return invoice, nil
}

// ListInvoices lists the owner's invoices with display statuses resolved.
// search narrows the result to invoices whose number or client name contains
// the term.
func (s *InvoiceService) ListInvoices(ctx context.Context, ownerID string, status *string, search string, page, pageSize int) ([]*billing.Invoice, int64, error) {
	offset := (page - 1) * pageSize
	invoices, total, err := s.invoiceRepo.List(ctx, ownerID, status, search, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	for _, inv := range invoices {
		inv.Status = billing.ResolveStatus(inv.DueDate, inv.Status, now)
	}
	return invoices, total, nil
}

// UpdateStatus records a user-driven status change (typically marking an
// invoice paid, or reverting a mistaken payment back to unpaid).
func (s *InvoiceService) UpdateStatus(ctx context.Context, id, ownerID, status string) (*billing.Invoice, error) {
	parsed, err := billing.ParseStatus(status)
	if err != nil {
		return nil, apperrors.InvalidInput("status", err.Error())
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, id, ownerID, parsed); err != nil {
		return nil, err
	}

	s.events.PublishInvoiceEvent(ctx, "invoice_status_changed", ownerID, id, invoice.InvoiceNumber, map[string]any{
		"from": string(invoice.Status),
		"to":   string(parsed),
	})

	s.log.Info().
		Str("invoice_id", id).
		Str("invoice_number", invoice.InvoiceNumber).
		Str("from", string(invoice.Status)).
		Str("to", string(parsed)).
		Msg("Invoice status updated")

	return s.GetInvoice(ctx, id, ownerID)
}

// DeleteInvoice removes an invoice.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id, ownerID string) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.invoiceRepo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.log.Info().
		Str("invoice_id", id).
		Str("invoice_number", invoice.InvoiceNumber).
		Msg("Invoice deleted")

	return nil
}

// GetStats returns the owner's invoice summary.
func (s *InvoiceService) GetStats(ctx context.Context, ownerID string) (*repository.Stats, error) {
	return s.invoiceRepo.GetStats(ctx, ownerID)
}

// parseDate accepts both plain dates and RFC 3339 timestamps, which is what
// the client shells historically sent.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
