package report

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/lunarforge/artemis/internal/msg"
	"github.com/lunarforge/artemis/internal/store"
)

// Money renders the recent revenue and expense picture. Total revenue sums
// every fetched row regardless of collection state; net is collected cash
// minus expenses.
func (b *Builder) Money(ctx context.Context) msg.Message {
	var (
		g        errgroup.Group
		revenue  []store.RevenueEntry
		expenses []store.ExpenseEntry
	)
	g.Go(func() error {
		rows, err := b.store.RevenueEntries(ctx, false, 10)
		if err != nil {
			b.readError("revenue", err)
			return nil
		}
		revenue = rows
		return nil
	})
	g.Go(func() error {
		rows, err := b.store.ExpenseEntries(ctx, 10)
		if err != nil {
			b.readError("expenses", err)
			return nil
		}
		expenses = rows
		return nil
	})
	_ = g.Wait()

	var totalRevenue, collected, totalExpenses float64
	for _, r := range revenue {
		totalRevenue += r.Amount
		if r.Collected {
			collected += r.Amount
		}
	}
	for _, e := range expenses {
		totalExpenses += e.Amount
	}
	net := collected - totalExpenses

	blocks := []msg.Block{
		msg.Header{Text: "Money"},
		msg.Fields{Items: []string{
			field("Total Revenue", money(totalRevenue)),
			field("Collected", money(collected)),
			field("Expenses", money(totalExpenses)),
			field("Net", money(net)),
		}},
	}

	if len(revenue) > 0 {
		lines := "*Recent revenue*"
		for i, r := range revenue {
			if i >= 5 {
				break
			}
			status := "⏳"
			if r.Collected {
				status = "✅"
			}
			lines += "\n• " + money(r.Amount) + " — " + orDefault(r.Description, r.Source, "unlabeled") + " " + status
		}
		blocks = append(blocks, msg.Divider{}, msg.Section{Text: lines})
	}
	if len(expenses) > 0 {
		lines := "*Recent expenses*"
		for i, e := range expenses {
			if i >= 5 {
				break
			}
			lines += "\n• " + money(e.Amount) + " — " + orDefault(e.Vendor, e.Category, "unlabeled")
		}
		blocks = append(blocks, msg.Divider{}, msg.Section{Text: lines})
	}

	return msg.Message{Fallback: "Money summary", Blocks: blocks}
}
