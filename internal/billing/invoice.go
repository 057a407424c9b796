package billing

import (
	"fmt"
	"strings"
	"time"
)

// Invoice is the strict domain shape of a persisted invoice. The repository
// layer translates between these fields and the store's column names.
type Invoice struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"-"`
	InvoiceNumber  string     `json:"invoice_number"`
	ClientName     string     `json:"client_name"`
	ClientEmail    string     `json:"client_email"`
	ClientPhone    string     `json:"client_phone"`
	Items          []LineItem `json:"items"`
	Subtotal       float64    `json:"subtotal"`
	VATAmount      float64    `json:"vat"`
	WithholdingTax float64    `json:"withholding_tax"`
	Total          float64    `json:"total"`
	DueDate        time.Time  `json:"due_date"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	AccountID      *string    `json:"account_id,omitempty"`
}

// TaxRates are the percentages captured into an invoice at creation time.
// They are not retroactively recalculated when defaults change.
type TaxRates struct {
	VATPercent         float64
	WithholdingPercent float64
}

// SequenceProvider yields the next invoice number for the owner. Backed by
// the store's atomic per-owner, per-year counter.
type SequenceProvider func() (string, error)

// InvoiceInput carries the client-supplied fields of a new invoice.
type InvoiceInput struct {
	ClientName  string
	ClientEmail string
	ClientPhone string
	Items       []LineItem
	DueDate     time.Time
	// AccountID is the selected payment destination, empty when none was
	// chosen.
	AccountID string
	// HasBankAccounts reports whether the owner has any accounts
	// configured. When true, AccountID must be set: an invoice should not
	// be creatable without a resolvable payment destination.
	HasBankAccounts bool
}

// AssembleInvoice validates the input, computes totals, draws an invoice
// number from the sequence provider, and returns a persistable record.
//
// New invoices always start unpaid regardless of due date; the effective
// status is resolved lazily at read time.
func AssembleInvoice(in InvoiceInput, rates TaxRates, nextNumber SequenceProvider, now time.Time) (*Invoice, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	items := make([]LineItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, Normalize(item))
	}

	totals := ComputeTotals(items, rates.VATPercent, rates.WithholdingPercent)

	number, err := nextNumber()
	if err != nil {
		return nil, fmt.Errorf("generate invoice number: %w", err)
	}

	var accountID *string
	if in.AccountID != "" {
		id := in.AccountID
		accountID = &id
	}

	return &Invoice{
		InvoiceNumber:  number,
		ClientName:     strings.TrimSpace(in.ClientName),
		ClientEmail:    strings.TrimSpace(in.ClientEmail),
		ClientPhone:    strings.TrimSpace(in.ClientPhone),
		Items:          items,
		Subtotal:       totals.Subtotal,
		VATAmount:      totals.VATAmount,
		WithholdingTax: totals.WithholdingAmount,
		Total:          totals.Total,
		DueDate:        in.DueDate,
		Status:         StatusUnpaid,
		CreatedAt:      now,
		AccountID:      accountID,
	}, nil
}

func validateInput(in InvoiceInput) error {
	if strings.TrimSpace(in.ClientName) == "" {
		return validationErr(MissingClientField, "client_name", "client name is required")
	}
	if strings.TrimSpace(in.ClientEmail) == "" {
		return validationErr(MissingClientField, "client_email", "client email is required")
	}
	if strings.TrimSpace(in.ClientPhone) == "" {
		return validationErr(MissingClientField, "client_phone", "client phone is required")
	}

	if len(in.Items) == 0 {
		return validationErr(InvalidLineItem, "items", "invoice must have at least one line item")
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.Description) == "" {
			return validationErr(InvalidLineItem, fmt.Sprintf("items[%d].description", i), "description is required")
		}
		if !(item.UnitPrice > 0) {
			return validationErr(InvalidLineItem, fmt.Sprintf("items[%d].price", i), "unit price must be positive")
		}
	}

	if in.HasBankAccounts && in.AccountID == "" {
		return validationErr(MissingAccount, "account_id", "select a bank account to receive payment")
	}

	return nil
}

// FormatInvoiceNumber renders the canonical invoice number for a year and
// sequence value, e.g. FormatInvoiceNumber(2024, 3) == "INV-2024-003".
// Sequences past 999 widen naturally.
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%03d", year, seq)
}
