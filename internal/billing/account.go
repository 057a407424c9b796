package billing

// AccountType is the kind of bank account.
type AccountType string

const (
	AccountTypeCurrent AccountType = "current"
	AccountTypeSavings AccountType = "savings"
)

// BankAccount is a payment destination owned by a user and referenced by
// invoices. At most one account per owner may be the default.
type BankAccount struct {
	ID            string      `json:"id"`
	AccountName   string      `json:"account_name"`
	BankName      string      `json:"bank_name"`
	AccountNumber string      `json:"account_number"`
	AccountType   AccountType `json:"account_type"`
	IsDefault     bool        `json:"is_default"`
}

// SetDefaultAccount returns a new collection in which exactly the account
// matching targetID is the default. Idempotent: applying the same target
// twice yields the same collection. When targetID matches no account, every
// default is cleared; callers are expected to verify the target exists.
func SetDefaultAccount(accounts []BankAccount, targetID string) []BankAccount {
	out := make([]BankAccount, len(accounts))
	for i, acc := range accounts {
		acc.IsDefault = acc.ID == targetID
		out[i] = acc
	}
	return out
}

// RemoveAccount returns the collection without the account matching id.
// When the removed account held the default and others remain, the first
// remaining account (by existing order) becomes the default.
func RemoveAccount(accounts []BankAccount, id string) []BankAccount {
	removedDefault := false
	out := make([]BankAccount, 0, len(accounts))
	for _, acc := range accounts {
		if acc.ID == id {
			removedDefault = acc.IsDefault
			continue
		}
		out = append(out, acc)
	}

	if removedDefault && len(out) > 0 {
		out[0].IsDefault = true
	}
	return out
}

// DefaultAccountID returns the id of the default account, or "" when the
// collection has none.
func DefaultAccountID(accounts []BankAccount) string {
	for _, acc := range accounts {
		if acc.IsDefault {
			return acc.ID
		}
	}
	return ""
}
