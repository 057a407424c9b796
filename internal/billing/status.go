package billing

import (
	"fmt"
	"strings"
	"time"
)

// Status is the payment state of an invoice.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusUnpaid  Status = "unpaid"
	StatusOverdue Status = "overdue"
)

// ParseStatus validates a user-supplied status string.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPaid:
		return StatusPaid, nil
	case StatusUnpaid:
		return StatusUnpaid, nil
	case StatusOverdue:
		return StatusOverdue, nil
	}
	return "", fmt.Errorf("invalid invoice status %q", s)
}

// ResolveStatus computes the effective payment status of an invoice.
//
// Paid is sticky: once a user marks an invoice paid it never auto-reverts,
// even when the due date sits in the future after a correction. Otherwise
// the status is purely time-derived: past due means overdue, else unpaid.
// A stored "overdue" with a due date moved into the future resolves back to
// unpaid for the same reason.
//
// Callers supply now so the function stays deterministic and testable.
func ResolveStatus(dueDate time.Time, stored Status, now time.Time) Status {
	if stored == StatusPaid {
		return StatusPaid
	}
	if dueDate.Before(now) {
		return StatusOverdue
	}
	return StatusUnpaid
}
