package repository

import (
	"strings"
	"testing"
)

func TestListFilter(t *testing.T) {
	unpaid := "unpaid"

	tests := []struct {
		name       string
		status     *string
		search     string
		wantClause string
		wantArgs   []any
	}{
		{
			name:       "owner only",
			wantClause: ` WHERE user_id = $1`,
			wantArgs:   []any{"owner-1"},
		},
		{
			name:       "status filter",
			status:     &unpaid,
			wantClause: ` WHERE user_id = $1 AND status = $2`,
			wantArgs:   []any{"owner-1", "unpaid"},
		},
		{
			name:       "search matches number and client name",
			search:     "INV-2024",
			wantClause: ` WHERE user_id = $1 AND (invoice_number ILIKE $2 OR client_name ILIKE $2)`,
			wantArgs:   []any{"owner-1", "%INV-2024%"},
		},
		{
			name:       "status and search combine",
			status:     &unpaid,
			search:     "Adebayo",
			wantClause: ` WHERE user_id = $1 AND status = $2 AND (invoice_number ILIKE $3 OR client_name ILIKE $3)`,
			wantArgs:   []any{"owner-1", "unpaid", "%Adebayo%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := listFilter("owner-1", tt.status, tt.search)
			if clause != tt.wantClause {
				t.Errorf("clause = %q, want %q", clause, tt.wantClause)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestListFilter_SearchIsParameterized(t *testing.T) {
	// A hostile search term must end up as a bind argument, never in the
	// clause text.
	clause, args := listFilter("owner-1", nil, `'; DROP TABLE invoices; --`)
	if strings.Contains(clause, "DROP") {
		t.Fatalf("search term leaked into clause: %q", clause)
	}
	if len(args) != 2 || args[1] != `%'; DROP TABLE invoices; --%` {
		t.Errorf("args = %v, want parameterized search pattern", args)
	}
}
