package report

import (
	"context"
	"fmt"

	"github.com/lunarforge/artemis/internal/msg"
)

// Pipeline renders the most recent leads, one line per lead, newest first.
func (b *Builder) Pipeline(ctx context.Context) msg.Message {
	leads, err := b.store.RecentLeads(ctx, 15)
	if err != nil {
		b.readError("leads", err)
	}
	if len(leads) == 0 {
		return msg.Plain("Pipeline is empty. No leads yet.")
	}

	blocks := []msg.Block{msg.Header{Text: "Pipeline"}}
	for _, l := range leads {
		line := tierEmoji(l.Tier) + " *" + l.Name + "*"
		if l.Company != "" {
			line += " (" + l.Company + ")"
		}
		line += " · " + orDefault(l.Status, "incoming")
		line += " · " + orDefault(l.Source, "?")
		blocks = append(blocks, msg.Section{Text: line})
	}
	blocks = append(blocks, msg.Context{Text: fmt.Sprintf("%d leads shown · most recent first", len(leads))})
	return msg.Message{Fallback: fmt.Sprintf("Pipeline: %d leads", len(leads)), Blocks: blocks}
}
