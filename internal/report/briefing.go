package report

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/lunarforge/artemis/internal/msg"
	"github.com/lunarforge/artemis/internal/store"
)

var openTaskStatuses = []store.TaskStatus{store.TaskPending, store.TaskInProgress, store.TaskBlocked}

// Briefing assembles the full business overview. Both the "briefing" and
// "status" intents resolve here.
func (b *Builder) Briefing(ctx context.Context) msg.Message {
	var (
		g         errgroup.Group
		projects  []store.Project
		leads     []store.Lead
		tasks     []store.Task
		approvals []store.ApprovalRequest
		revenue   []store.RevenueEntry
		expenses  []store.ExpenseEntry
	)
	g.Go(func() error {
		rows, err := b.store.ProjectsByStatus(ctx, store.ProjectActive)
		if err != nil {
			b.readError("projects", err)
			return nil
		}
		projects = rows
		return nil
	})
	g.Go(func() error {
		rows, err := b.store.RecentLeads(ctx, 10)
		if err != nil {
			b.readError("leads", err)
			return nil
		}
		leads = rows
		return nil
	})
	g.Go(func() error {
		rows, err := b.store.OpenTasks(ctx, openTaskStatuses, 0)
		if err != nil {
			b.readError("tasks", err)
			return nil
		}
		tasks = rows
		return nil
	})
	g.Go(func() error {
		rows, err := b.store.PendingApprovals(ctx)
		if err != nil {
			b.readError("approvals", err)
			return nil
		}
		approvals = rows
		return nil
	})
	g.Go(func() error {
		rows, err := b.store.RevenueEntries(ctx, true, 0)
		if err != nil {
			b.readError("revenue", err)
			return nil
		}
		revenue = rows
		return nil
	})
	g.Go(func() error {
		rows, err := b.store.ExpenseEntries(ctx, 0)
		if err != nil {
			b.readError("expenses", err)
			return nil
		}
		expenses = rows
		return nil
	})
	_ = g.Wait()

	incoming := 0
	softballs := 0
	for _, l := range leads {
		if l.Status == "incoming" {
			incoming++
		}
		if l.Tier == store.TierSoftball {
			softballs++
		}
	}
	blocked := 0
	for _, t := range tasks {
		if t.Status == store.TaskBlocked {
			blocked++
		}
	}
	var totalRevenue, totalExpenses float64
	for _, r := range revenue {
		totalRevenue += r.Amount
	}
	for _, e := range expenses {
		totalExpenses += e.Amount
	}
	net := totalRevenue - totalExpenses
	margin := 0
	if totalRevenue > 0 {
		margin = int(math.Round(net / totalRevenue * 100))
	}

	openTasksValue := fmt.Sprintf("%d", len(tasks))
	if blocked > 0 {
		openTasksValue = fmt.Sprintf("%d (%d blocked)", len(tasks), blocked)
	}
	leadsValue := fmt.Sprintf("%d", incoming)
	if softballs > 0 {
		leadsValue = fmt.Sprintf("%d (%d softball)", incoming, softballs)
	}

	blocks := []msg.Block{
		msg.Header{Text: "Daily Briefing"},
		msg.Divider{},
		msg.Fields{Items: []string{
			field("Active Projects", fmt.Sprintf("%d", len(projects))),
			field("Open Tasks", openTasksValue),
			field("Incoming Leads", leadsValue),
			field("Pending Approvals", fmt.Sprintf("%d", len(approvals))),
		}},
		msg.Divider{},
		msg.Fields{Items: []string{
			field("Revenue", money(totalRevenue)),
			field("Expenses", money(totalExpenses)),
			field("Net", money(net)),
			field("Margin", fmt.Sprintf("%d%%", margin)),
		}},
	}

	if blocked > 0 || len(approvals) > 0 || softballs > 0 {
		lines := "*Needs Attention*"
		if blocked > 0 {
			lines += fmt.Sprintf("\n• %d task(s) blocked", blocked)
		}
		if len(approvals) > 0 {
			lines += fmt.Sprintf("\n• %d approval(s) waiting on you", len(approvals))
		}
		if softballs > 0 {
			lines += fmt.Sprintf("\n• %d softball lead(s) — follow up", softballs)
		}
		blocks = append(blocks, msg.Divider{}, msg.Section{Text: lines})
	}

	blocks = append(blocks, msg.Context{Text: b.now().Format("Monday, January 2")})
	return msg.Message{Fallback: "Daily briefing", Blocks: blocks}
}
