package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/swiftbill/be-invoicing/internal/apperrors"
	"github.com/swiftbill/be-invoicing/internal/billing"
	"github.com/swiftbill/be-invoicing/internal/database"
)

// InvoiceRepository handles invoice data operations. Every query is scoped
// to the owning user; the semantic field names of the domain type map onto
// the store's column names here (VATAmount <-> vat, WithholdingTax <->
// withholding_tax).
type InvoiceRepository struct {
	db *database.DB
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(db *database.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = `id, user_id, invoice_number, client_name, client_email, client_phone,
       items, subtotal, vat, withholding_tax, total, due_date, status, account_id, created_at`

// Create persists a new invoice.
func (r *InvoiceRepository) Create(ctx context.Context, inv *billing.Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to encode line items")
	}

	query := `
		INSERT INTO invoices (user_id, invoice_number, client_name, client_email, client_phone,
		                      items, subtotal, vat, withholding_tax, total, due_date, status,
		                      account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	err = r.db.QueryRow(ctx, query,
		inv.OwnerID,
		inv.InvoiceNumber,
		inv.ClientName,
		inv.ClientEmail,
		inv.ClientPhone,
		items,
		inv.Subtotal,
		inv.VATAmount,
		inv.WithholdingTax,
		inv.Total,
		inv.DueDate,
		string(inv.Status),
		inv.AccountID,
		inv.CreatedAt,
	).Scan(&inv.ID)

	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to create invoice")
	}
	return nil
}

// GetByID retrieves an invoice by ID for the given owner.
func (r *InvoiceRepository) GetByID(ctx context.Context, id, ownerID string) (*billing.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id = $1 AND user_id = $2`, invoiceColumns)

	inv, err := scanInvoice(r.db.QueryRow(ctx, query, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("invoice", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get invoice")
	}
	return inv, nil
}

// listFilter builds the WHERE clause and arguments shared by the list and
// count queries. Search matches invoice number or client name,
// case-insensitively.
func listFilter(ownerID string, status *string, search string) (string, []any) {
	clause := ` WHERE user_id = $1`
	args := []any{ownerID}

	if status != nil {
		args = append(args, *status)
		clause += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		clause += fmt.Sprintf(` AND (invoice_number ILIKE $%d OR client_name ILIKE $%d)`, len(args), len(args))
	}
	return clause, args
}

// List retrieves the owner's invoices, newest first, optionally filtered by
// stored status and a search term over invoice number and client name.
//
// The status filter matches the stored column, so an unpaid invoice past its
// due date still lists under "unpaid" until the sweep persists the overdue
// transition; its displayed status is resolved separately at read time.
func (r *InvoiceRepository) List(ctx context.Context, ownerID string, status *string, search string, limit, offset int) ([]*billing.Invoice, int64, error) {
	where, args := listFilter(ownerID, status, search)
	query := fmt.Sprintf(`SELECT %s FROM invoices%s`, invoiceColumns, where)
	countQuery := `SELECT COUNT(*) FROM invoices` + where

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to count invoices")
	}

	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list invoices")
	}
	defer rows.Close()

	invoices := make([]*billing.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan invoice")
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to read invoices")
	}

	return invoices, total, nil
}

// UpdateStatus stores a user-driven status change.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id, ownerID string, status billing.Status) error {
	query := `
		UPDATE invoices
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id
	`

	var returnedID string
	err := r.db.QueryRow(ctx, query, id, ownerID, string(status)).Scan(&returnedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound("invoice", id)
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to update invoice status")
	}
	return nil
}

// Delete removes an invoice.
func (r *InvoiceRepository) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to delete invoice")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("invoice", id)
	}
	return nil
}

// OverdueCandidate identifies an unpaid invoice whose due date has passed.
type OverdueCandidate struct {
	ID            string
	OwnerID       string
	InvoiceNumber string
}

// ListOverdueCandidates returns unpaid invoices due before now, across all
// owners. Consumed by the reconciliation sweep.
func (r *InvoiceRepository) ListOverdueCandidates(ctx context.Context, now time.Time) ([]OverdueCandidate, error) {
	query := `
		SELECT id, user_id, invoice_number
		FROM invoices
		WHERE status = 'unpaid' AND due_date < $1
		ORDER BY due_date
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list overdue candidates")
	}
	defer rows.Close()

	candidates := make([]OverdueCandidate, 0)
	for rows.Next() {
		var c OverdueCandidate
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.InvoiceNumber); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to scan overdue candidate")
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// MarkOverdue transitions an unpaid invoice to overdue. Returns false when
// no transition happened (already overdue, paid in the meantime, or gone),
// which makes repeated sweeps over the same invoice a no-op.
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE invoices SET status = 'overdue', updated_at = NOW() WHERE id = $1 AND status = 'unpaid'`, id)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.CodeInternal, "failed to mark invoice overdue")
	}
	return tag.RowsAffected() > 0, nil
}

// Stats summarizes an owner's invoices by stored status.
type Stats struct {
	TotalInvoices int64   `json:"total_invoices"`
	PaidCount     int64   `json:"paid_count"`
	UnpaidCount   int64   `json:"unpaid_count"`
	OverdueCount  int64   `json:"overdue_count"`
	TotalPaid     float64 `json:"total_paid"`
	TotalUnpaid   float64 `json:"total_unpaid"`
	TotalOverdue  float64 `json:"total_overdue"`
}

// GetStats computes the owner's invoice summary in a single query.
func (r *InvoiceRepository) GetStats(ctx context.Context, ownerID string) (*Stats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'paid'),
		       COUNT(*) FILTER (WHERE status = 'unpaid'),
		       COUNT(*) FILTER (WHERE status = 'overdue'),
		       COALESCE(SUM(total) FILTER (WHERE status = 'paid'), 0),
		       COALESCE(SUM(total) FILTER (WHERE status = 'unpaid'), 0),
		       COALESCE(SUM(total) FILTER (WHERE status = 'overdue'), 0)
		FROM invoices
		WHERE user_id = $1
	`

	stats := &Stats{}
	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&stats.TotalInvoices,
		&stats.PaidCount,
		&stats.UnpaidCount,
		&stats.OverdueCount,
		&stats.TotalPaid,
		&stats.TotalUnpaid,
		&stats.TotalOverdue,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get invoice stats")
	}
	return stats, nil
}

// scanInvoice reads one invoice row. Line items are stored as JSON and pass
// through the lenient decoder so corrupted rows normalize instead of
// failing the whole read.
func scanInvoice(row pgx.Row) (*billing.Invoice, error) {
	inv := &billing.Invoice{}
	var (
		items  []byte
		status string
	)

	err := row.Scan(
		&inv.ID,
		&inv.OwnerID,
		&inv.InvoiceNumber,
		&inv.ClientName,
		&inv.ClientEmail,
		&inv.ClientPhone,
		&items,
		&inv.Subtotal,
		&inv.VATAmount,
		&inv.WithholdingTax,
		&inv.Total,
		&inv.DueDate,
		&status,
		&inv.AccountID,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.Status = billing.Status(status)

	var stored []billing.StoredLineItem
	if len(items) > 0 {
		if err := json.Unmarshal(items, &stored); err != nil {
			// Unreadable items column: render an empty list rather than
			// breaking the invoice view.
			stored = nil
		}
	}
	inv.Items = billing.NormalizeStored(stored)

	return inv, nil
}
