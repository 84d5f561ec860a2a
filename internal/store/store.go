// Package store holds the typed record collections the bot reports over and
// the query surface the assemblers consume. Records are owned by external
// admin flows; apart from the approval transition everything here is read-only
// to the bot.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyDecided is returned when an approval transition targets a
	// request whose status already left pending.
	ErrAlreadyDecided = errors.New("approval request already decided")
)

// Store is the read surface plus the single conditional write.
type Store interface {
	// ProjectsByStatus returns projects whose status is in statuses, ordered
	// by status.
	ProjectsByStatus(ctx context.Context, statuses ...ProjectStatus) ([]Project, error)
	// RecentLeads returns up to limit leads, newest first.
	RecentLeads(ctx context.Context, limit int) ([]Lead, error)
	// OpenTasks returns tasks whose status is in statuses, ordered by
	// priority (urgent first). limit <= 0 means no limit.
	OpenTasks(ctx context.Context, statuses []TaskStatus, limit int) ([]Task, error)
	// PendingApprovals returns pending approval requests, oldest first.
	PendingApprovals(ctx context.Context) ([]ApprovalRequest, error)
	// RevenueEntries returns revenue rows, newest first, optionally only
	// collected ones. limit <= 0 means no limit.
	RevenueEntries(ctx context.Context, collectedOnly bool, limit int) ([]RevenueEntry, error)
	// ExpenseEntries returns expense rows, newest first. limit <= 0 means no
	// limit.
	ExpenseEntries(ctx context.Context, limit int) ([]ExpenseEntry, error)
	// DecideApproval performs the pending -> status transition for one
	// request. The update is conditional on the current status still being
	// pending: a request already decided returns ErrAlreadyDecided, an
	// unknown id returns ErrNotFound, and neither alters the record.
	DecideApproval(ctx context.Context, id string, status ApprovalStatus, reviewer string, at time.Time) (ApprovalRequest, error)
}

// Writer is the insert surface used by seeding and tests. Puts are upserts
// keyed by record id.
type Writer interface {
	PutProject(ctx context.Context, p Project) error
	PutLead(ctx context.Context, l Lead) error
	PutTask(ctx context.Context, t Task) error
	PutRevenue(ctx context.Context, r RevenueEntry) error
	PutExpense(ctx context.Context, e ExpenseEntry) error
	PutApproval(ctx context.Context, a ApprovalRequest) error
}
