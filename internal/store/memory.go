package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Store used by tests and local experiments. Query
// ordering matches the SQLite implementation.
type Memory struct {
	mu        sync.Mutex
	projects  []Project
	leads     []Lead
	tasks     []Task
	revenue   []RevenueEntry
	expenses  []ExpenseEntry
	approvals []ApprovalRequest
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) ProjectsByStatus(_ context.Context, statuses ...ProjectStatus) ([]Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[ProjectStatus]bool, len(statuses))
	for _, st := range statuses {
		want[st] = true
	}
	var out []Project
	for _, p := range m.projects {
		if want[p.Status] {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (m *Memory) RecentLeads(_ context.Context, limit int) ([]Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]Lead(nil), m.leads...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func taskPriorityRank(p TaskPriority) int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

func (m *Memory) OpenTasks(_ context.Context, statuses []TaskStatus, limit int) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[TaskStatus]bool, len(statuses))
	for _, st := range statuses {
		want[st] = true
	}
	var out []Task
	for _, t := range m.tasks {
		if want[t.Status] {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return taskPriorityRank(out[i].Priority) < taskPriorityRank(out[j].Priority)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) PendingApprovals(_ context.Context) ([]ApprovalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ApprovalRequest
	for _, a := range m.approvals {
		if a.Status == ApprovalPending {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) RevenueEntries(_ context.Context, collectedOnly bool, limit int) ([]RevenueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []RevenueEntry
	for _, r := range m.revenue {
		if collectedOnly && !r.Collected {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) ExpenseEntries(_ context.Context, limit int) ([]ExpenseEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]ExpenseEntry(nil), m.expenses...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) DecideApproval(_ context.Context, id string, status ApprovalStatus, reviewer string, at time.Time) (ApprovalRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ApprovalRequest{}, fmt.Errorf("approval id is required")
	}
	if status != ApprovalApproved && status != ApprovalRejected {
		return ApprovalRequest{}, fmt.Errorf("approval status %q is not a terminal decision", status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.approvals {
		if m.approvals[i].ID != id {
			continue
		}
		if m.approvals[i].Status != ApprovalPending {
			return ApprovalRequest{}, ErrAlreadyDecided
		}
		decidedAt := at.UTC()
		m.approvals[i].Status = status
		m.approvals[i].ReviewedBy = reviewer
		m.approvals[i].ReviewedAt = &decidedAt
		return m.approvals[i], nil
	}
	return ApprovalRequest{}, ErrNotFound
}

func (m *Memory) PutProject(_ context.Context, p Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.projects {
		if m.projects[i].ID == p.ID {
			m.projects[i] = p
			return nil
		}
	}
	m.projects = append(m.projects, p)
	return nil
}

func (m *Memory) PutLead(_ context.Context, l Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.leads {
		if m.leads[i].ID == l.ID {
			m.leads[i] = l
			return nil
		}
	}
	m.leads = append(m.leads, l)
	return nil
}

func (m *Memory) PutTask(_ context.Context, t Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == t.ID {
			m.tasks[i] = t
			return nil
		}
	}
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *Memory) PutRevenue(_ context.Context, r RevenueEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.revenue {
		if m.revenue[i].ID == r.ID {
			m.revenue[i] = r
			return nil
		}
	}
	m.revenue = append(m.revenue, r)
	return nil
}

func (m *Memory) PutExpense(_ context.Context, e ExpenseEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.expenses {
		if m.expenses[i].ID == e.ID {
			m.expenses[i] = e
			return nil
		}
	}
	m.expenses = append(m.expenses, e)
	return nil
}

func (m *Memory) PutApproval(_ context.Context, a ApprovalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.Status == "" {
		a.Status = ApprovalPending
	}
	for i := range m.approvals {
		if m.approvals[i].ID == a.ID {
			m.approvals[i] = a
			return nil
		}
	}
	m.approvals = append(m.approvals, a)
	return nil
}
