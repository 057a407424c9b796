package billing

// Totals holds the derived monetary summary of an invoice.
type Totals struct {
	Subtotal          float64
	VATAmount         float64
	WithholdingAmount float64
	Total             float64
}

// ComputeTotals derives an invoice's totals from its line items and the tax
// rates captured at creation time. Items are re-normalized defensively, so
// the function is safe to call on raw storage rows and is idempotent.
//
// No rounding is applied; display formatting is a presentation concern.
// Tax percentages are deliberately not clamped: quantities and prices are,
// tax rates are not, matching how the rest of the system treats them.
func ComputeTotals(items []LineItem, vatPercent, withholdingPercent float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += Normalize(item).Total
	}

	vat := subtotal * vatPercent / 100
	withholding := subtotal * withholdingPercent / 100

	return Totals{
		Subtotal:          subtotal,
		VATAmount:         vat,
		WithholdingAmount: withholding,
		Total:             subtotal + vat - withholding,
	}
}
