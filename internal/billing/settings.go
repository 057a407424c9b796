package billing

// Settings is a user's business profile and tax-rate defaults. Rates are
// captured into an invoice at creation time; editing them later does not
// recalculate existing invoices.
type Settings struct {
	BusinessName              string  `json:"business_name"`
	BusinessLogo              string  `json:"business_logo"`
	DefaultVATPercent         float64 `json:"default_vat"`
	DefaultWithholdingPercent float64 `json:"default_withholding_tax"`
	Currency                  string  `json:"currency"`
	DefaultAccountID          *string `json:"default_account_id"`
}

// DefaultSettings are applied for owners who have not saved a profile yet.
func DefaultSettings() Settings {
	return Settings{
		BusinessName:              "My Business",
		DefaultVATPercent:         7.5,
		DefaultWithholdingPercent: 5.0,
		Currency:                  "NGN",
	}
}
