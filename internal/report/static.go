package report

import (
	"fmt"

	"github.com/lunarforge/artemis/internal/msg"
)

const triggerWords = "briefing, pipeline, money, projects, tasks, status, approve, help"

// Help returns the static command reference. No data is read.
func (b *Builder) Help() msg.Message {
	return msg.Message{
		Fallback: "Artemis commands",
		Blocks: []msg.Block{
			msg.Header{Text: "Artemis"},
			msg.Section{Text: "Ask me for one of these:\n" +
				"• *briefing* / *status* — full business overview\n" +
				"• *pipeline* — recent leads\n" +
				"• *money* — revenue, expenses and net\n" +
				"• *projects* — what's in flight\n" +
				"• *tasks* — the open plate\n" +
				"• *approve* — pending approvals with buttons\n" +
				"• *help* — this list"},
		},
	}
}

// Unknown echoes the mention-stripped input back with the valid trigger
// words. It is the safe fallback for anything the classifier missed, never an
// error.
func (b *Builder) Unknown(text string) msg.Message {
	body := fmt.Sprintf("I didn't catch that: %q\nTry one of: %s", text, triggerWords)
	return msg.Message{
		Fallback: body,
		Blocks:   []msg.Block{msg.Section{Text: body}},
	}
}
