package billing

import (
	"reflect"
	"testing"
)

func sampleAccounts() []BankAccount {
	return []BankAccount{
		{ID: "a", AccountName: "John Doe", BankName: "Access Bank", AccountNumber: "0123456789", AccountType: AccountTypeCurrent, IsDefault: true},
		{ID: "b", AccountName: "John Doe", BankName: "GTBank", AccountNumber: "9876543210", AccountType: AccountTypeSavings},
		{ID: "c", AccountName: "Biz Account", BankName: "Zenith", AccountNumber: "5554443331", AccountType: AccountTypeCurrent},
	}
}

func countDefaults(accounts []BankAccount) int {
	n := 0
	for _, acc := range accounts {
		if acc.IsDefault {
			n++
		}
	}
	return n
}

func TestSetDefaultAccount(t *testing.T) {
	got := SetDefaultAccount(sampleAccounts(), "b")

	if n := countDefaults(got); n != 1 {
		t.Fatalf("defaults = %d, want exactly 1", n)
	}
	if DefaultAccountID(got) != "b" {
		t.Errorf("default = %q, want b", DefaultAccountID(got))
	}
}

func TestSetDefaultAccount_Idempotent(t *testing.T) {
	once := SetDefaultAccount(sampleAccounts(), "c")
	twice := SetDefaultAccount(once, "c")

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second application changed state:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestSetDefaultAccount_DoesNotMutateInput(t *testing.T) {
	in := sampleAccounts()
	SetDefaultAccount(in, "b")

	if !in[0].IsDefault || in[1].IsDefault {
		t.Error("input collection was mutated")
	}
}

func TestRemoveAccount(t *testing.T) {
	tests := []struct {
		name        string
		remove      string
		wantLen     int
		wantDefault string
	}{
		{
			name:        "removing the default promotes first remaining",
			remove:      "a",
			wantLen:     2,
			wantDefault: "b",
		},
		{
			name:        "removing a non-default keeps the default",
			remove:      "b",
			wantLen:     2,
			wantDefault: "a",
		},
		{
			name:        "removing unknown id is a no-op",
			remove:      "zzz",
			wantLen:     3,
			wantDefault: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoveAccount(sampleAccounts(), tt.remove)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if n := countDefaults(got); n != 1 {
				t.Errorf("defaults = %d, want exactly 1", n)
			}
			if DefaultAccountID(got) != tt.wantDefault {
				t.Errorf("default = %q, want %q", DefaultAccountID(got), tt.wantDefault)
			}
		})
	}
}

func TestRemoveAccount_LastAccountClearsDefault(t *testing.T) {
	only := []BankAccount{{ID: "a", IsDefault: true}}

	got := RemoveAccount(only, "a")
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
	if DefaultAccountID(got) != "" {
		t.Errorf("default = %q, want empty", DefaultAccountID(got))
	}
}
