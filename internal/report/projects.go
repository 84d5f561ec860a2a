package report

import (
	"context"
	"fmt"

	"github.com/lunarforge/artemis/internal/msg"
	"github.com/lunarforge/artemis/internal/store"
)

// Projects renders the projects that are not yet done, one line each.
func (b *Builder) Projects(ctx context.Context) msg.Message {
	projects, err := b.store.ProjectsByStatus(ctx, store.ProjectPlanning, store.ProjectActive, store.ProjectPaused)
	if err != nil {
		b.readError("projects", err)
	}
	if len(projects) == 0 {
		return msg.Plain("No active projects right now.")
	}

	blocks := []msg.Block{msg.Header{Text: "Projects"}}
	for _, p := range projects {
		line := projectEmoji(p.Status) + " *" + p.Name + "* — " + orDefault(p.Phase, string(p.Status))
		if p.ContractValue != nil {
			line += " • " + money(*p.ContractValue)
		}
		blocks = append(blocks, msg.Section{Text: line})
	}
	return msg.Message{Fallback: fmt.Sprintf("Projects: %d active", len(projects)), Blocks: blocks}
}
