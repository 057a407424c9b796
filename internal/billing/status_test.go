package billing

import (
	"testing"
	"time"
)

func TestResolveStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name    string
		dueDate time.Time
		stored  Status
		want    Status
	}{
		{"paid stays paid when overdue", yesterday, StatusPaid, StatusPaid},
		{"paid stays paid when due in future", tomorrow, StatusPaid, StatusPaid},
		{"unpaid past due becomes overdue", yesterday, StatusUnpaid, StatusOverdue},
		{"unpaid before due stays unpaid", tomorrow, StatusUnpaid, StatusUnpaid},
		{"unpaid due exactly now stays unpaid", now, StatusUnpaid, StatusUnpaid},
		{"overdue stays overdue while past due", yesterday, StatusOverdue, StatusOverdue},
		{"overdue reverts to unpaid after due date correction", tomorrow, StatusOverdue, StatusUnpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveStatus(tt.dueDate, tt.stored, now); got != tt.want {
				t.Errorf("ResolveStatus(%v, %v) = %v, want %v", tt.dueDate, tt.stored, got, tt.want)
			}
		})
	}
}

func TestResolveStatus_Idempotent(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -3)

	first := ResolveStatus(due, StatusUnpaid, now)
	if first != StatusOverdue {
		t.Fatalf("first resolution = %v, want overdue", first)
	}
	// Re-resolving the already-overdue record is a no-op.
	if again := ResolveStatus(due, first, now); again != StatusOverdue {
		t.Errorf("second resolution = %v, want overdue", again)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"paid", StatusPaid, false},
		{"UNPAID", StatusUnpaid, false},
		{" overdue ", StatusOverdue, false},
		{"settled", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
