package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiftbill/be-invoicing/internal/repository"
)

// fakeStore tracks invoice statuses in memory.
type fakeStore struct {
	statuses map[string]string // invoice id -> status
	dueDates map[string]time.Time
	listErr  error
	markErr  map[string]error
	marks    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		statuses: make(map[string]string),
		dueDates: make(map[string]time.Time),
		markErr:  make(map[string]error),
	}
}

func (f *fakeStore) add(id, status string, due time.Time) {
	f.statuses[id] = status
	f.dueDates[id] = due
}

func (f *fakeStore) ListOverdueCandidates(ctx context.Context, now time.Time) ([]repository.OverdueCandidate, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []repository.OverdueCandidate
	for id, status := range f.statuses {
		if status == "unpaid" && f.dueDates[id].Before(now) {
			out = append(out, repository.OverdueCandidate{ID: id, OwnerID: "owner-1", InvoiceNumber: "INV-2024-" + id})
		}
	}
	return out, nil
}

func (f *fakeStore) MarkOverdue(ctx context.Context, id string) (bool, error) {
	f.marks++
	if err := f.markErr[id]; err != nil {
		return false, err
	}
	if f.statuses[id] != "unpaid" {
		return false, nil
	}
	f.statuses[id] = "overdue"
	return true, nil
}

func newTestReconciler(store Store) *Reconciler {
	r := New(store, nil, zerolog.Nop(), time.Minute)
	r.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return r
}

func TestSweep_MarksPastDueUnpaid(t *testing.T) {
	store := newFakeStore()
	yesterday := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	nextWeek := time.Date(2024, 6, 22, 12, 0, 0, 0, time.UTC)

	store.add("1", "unpaid", yesterday)  // should transition
	store.add("2", "unpaid", nextWeek)   // not yet due
	store.add("3", "paid", yesterday)    // paid is sticky
	store.add("4", "overdue", yesterday) // already transitioned

	r := newTestReconciler(store)
	if got := r.Sweep(context.Background()); got != 1 {
		t.Fatalf("Sweep() = %d transitions, want 1", got)
	}

	want := map[string]string{"1": "overdue", "2": "unpaid", "3": "paid", "4": "overdue"}
	for id, status := range want {
		if store.statuses[id] != status {
			t.Errorf("invoice %s status = %q, want %q", id, store.statuses[id], status)
		}
	}
}

func TestSweep_Idempotent(t *testing.T) {
	store := newFakeStore()
	store.add("1", "unpaid", time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC))

	r := newTestReconciler(store)
	if got := r.Sweep(context.Background()); got != 1 {
		t.Fatalf("first Sweep() = %d, want 1", got)
	}
	// Second sweep finds nothing to do.
	if got := r.Sweep(context.Background()); got != 0 {
		t.Errorf("second Sweep() = %d, want 0", got)
	}
}

func TestSweep_ListFailureIsSwallowed(t *testing.T) {
	store := newFakeStore()
	store.listErr = fmt.Errorf("store unavailable")

	r := newTestReconciler(store)
	if got := r.Sweep(context.Background()); got != 0 {
		t.Errorf("Sweep() = %d, want 0 on list failure", got)
	}
}

func TestSweep_MarkFailureSkipsInvoice(t *testing.T) {
	store := newFakeStore()
	yesterday := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	store.add("1", "unpaid", yesterday)
	store.add("2", "unpaid", yesterday)
	store.markErr["1"] = fmt.Errorf("write failed")

	r := newTestReconciler(store)
	if got := r.Sweep(context.Background()); got != 1 {
		t.Errorf("Sweep() = %d, want 1 (failure on one invoice must not stop the rest)", got)
	}
	if store.statuses["2"] != "overdue" {
		t.Errorf("invoice 2 status = %q, want overdue", store.statuses["2"])
	}
	if store.statuses["1"] != "unpaid" {
		t.Errorf("invoice 1 status = %q, want unpaid (left for the next tick)", store.statuses["1"])
	}
}
