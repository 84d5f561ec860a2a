package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lunarforge/artemis/internal/store"
)

const fixtureYAML = `
projects:
  - id: p1
    name: Atlas
    status: active
    phase: build
    contract_value: 12000
leads:
  - name: Casey
    company: Initech
    status: incoming
    tier: SOFTBALL
    source: webform
    created_at: 2026-03-01
tasks:
  - id: t1
    title: Fix outage
    status: blocked
    priority: urgent
revenue:
  - amount: 500
    collected: true
    source: retainer
    date: 2026-02-15T10:00:00Z
expenses:
  - amount: 80
    vendor: Linode
    category: hosting
approvals:
  - id: apr-1
    action_type: send_invoice
    description: Invoice 88
    risk_level: medium
`

func TestLoadAndApply(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	if err := os.WriteFile(path, []byte(fixtureYAML), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	mem := store.NewMemory()
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	n, err := Apply(context.Background(), mem, f, now)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if n != 6 {
		t.Fatalf("rows written = %d, want 6", n)
	}

	ctx := context.Background()
	leads, err := mem.RecentLeads(ctx, 0)
	if err != nil {
		t.Fatalf("RecentLeads() error = %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("leads = %d, want 1", len(leads))
	}
	if leads[0].ID == "" {
		t.Fatal("missing lead id was not generated")
	}
	if want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC); !leads[0].CreatedAt.Equal(want) {
		t.Fatalf("lead created_at = %v, want %v", leads[0].CreatedAt, want)
	}

	expenses, err := mem.ExpenseEntries(ctx, 0)
	if err != nil {
		t.Fatalf("ExpenseEntries() error = %v", err)
	}
	if len(expenses) != 1 || !expenses[0].Date.Equal(now) {
		t.Fatalf("expense without date = %+v, want fallback %v", expenses, now)
	}

	pending, err := mem.PendingApprovals(ctx)
	if err != nil {
		t.Fatalf("PendingApprovals() error = %v", err)
	}
	if len(pending) != 1 || pending[0].Status != store.ApprovalPending {
		t.Fatalf("pending approvals = %+v", pending)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() on a missing file returned no error")
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()
	fallback := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2026-02-15T10:00:00Z", time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC)},
		{"2026-02-15", time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)},
		{"", fallback},
		{"not a date", fallback},
	}
	for _, tc := range cases {
		if got := parseDate(tc.raw, fallback); !got.Equal(tc.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
