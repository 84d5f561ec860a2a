package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

// DecideApproval input validation must behave the same on the in-memory
// store as on SQLite: a non-terminal target status or a blank id is a
// validation error, not ErrNotFound.
func TestDecideApproval_ValidationParity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	created := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	stores := map[string]interface {
		Store
		Writer
	}{
		"memory": NewMemory(),
		"sqlite": openTestStore(t),
	}
	for name, st := range stores {
		t.Run(name, func(t *testing.T) {
			if err := st.PutApproval(ctx, ApprovalRequest{ID: "apr-1", ActionType: "refund", CreatedAt: created}); err != nil {
				t.Fatalf("PutApproval() error = %v", err)
			}

			for _, status := range []ApprovalStatus{ApprovalPending, ApprovalStatus("escalated"), ""} {
				_, err := st.DecideApproval(ctx, "apr-1", status, "dana", created)
				if err == nil {
					t.Fatalf("DecideApproval(%q) accepted a non-terminal status", status)
				}
				if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyDecided) {
					t.Fatalf("DecideApproval(%q) error = %v, want a validation error", status, err)
				}
			}
			if _, err := st.DecideApproval(ctx, "  ", ApprovalApproved, "dana", created); err == nil || errors.Is(err, ErrNotFound) {
				t.Fatalf("DecideApproval with blank id error = %v, want a validation error", err)
			}

			// The rejected calls above must not have consumed the transition.
			rec, err := st.DecideApproval(ctx, "apr-1", ApprovalApproved, "dana", created.Add(time.Minute))
			if err != nil {
				t.Fatalf("DecideApproval() after validation errors = %v", err)
			}
			if rec.Status != ApprovalApproved {
				t.Fatalf("decided status = %q", rec.Status)
			}
		})
	}
}
