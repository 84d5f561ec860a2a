package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/lunarforge/artemis/internal/msg"
	"github.com/lunarforge/artemis/internal/store"
)

// Tasks renders open tasks ordered by priority, capped at 20.
func (b *Builder) Tasks(ctx context.Context) msg.Message {
	tasks, err := b.store.OpenTasks(ctx, openTaskStatuses, 20)
	if err != nil {
		b.readError("tasks", err)
	}
	if len(tasks) == 0 {
		return msg.Plain("No open tasks. Clear plate.")
	}

	counts := map[store.TaskStatus]int{}
	for _, t := range tasks {
		counts[t.Status]++
	}

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		line := "• " + taskStatusEmoji(t.Status)
		if p := priorityEmoji(t.Priority); p != "" {
			line += " " + p
		}
		line += " " + t.Title
		lines = append(lines, line)
	}

	blocks := []msg.Block{
		msg.Header{Text: "Tasks"},
		msg.Fields{Items: []string{
			field("In Progress", fmt.Sprintf("%d", counts[store.TaskInProgress])),
			field("Pending", fmt.Sprintf("%d", counts[store.TaskPending])),
			field("Blocked", fmt.Sprintf("%d", counts[store.TaskBlocked])),
			field("Total", fmt.Sprintf("%d", len(tasks))),
		}},
		msg.Section{Text: strings.Join(lines, "\n")},
	}
	return msg.Message{Fallback: fmt.Sprintf("Tasks: %d open", len(tasks)), Blocks: blocks}
}
