package report

import (
	"context"
	"fmt"

	"github.com/lunarforge/artemis/internal/msg"
)

// PendingApprovals renders every pending approval request, oldest first, each
// with its approve/reject buttons. The request id rides both in the button
// value and, redundantly, in the action id suffix; the two must stay in sync
// with the action handler's parsing convention.
func (b *Builder) PendingApprovals(ctx context.Context) msg.Message {
	approvals, err := b.store.PendingApprovals(ctx)
	if err != nil {
		b.readError("approvals", err)
	}
	if len(approvals) == 0 {
		return msg.Plain("Nothing pending approval. All clear.")
	}

	blocks := []msg.Block{msg.Header{Text: "Pending Approvals"}}
	for _, a := range approvals {
		blocks = append(blocks,
			msg.Divider{},
			msg.Section{Text: riskEmoji(a.RiskLevel) + " *" + a.ActionType + "*\n" + orDefault(a.Description, "No description")},
			msg.Actions{Buttons: []msg.Button{
				{Label: "Approve", ActionID: "approve_" + a.ID, Value: a.ID, Style: "primary"},
				{Label: "Reject", ActionID: "reject_" + a.ID, Value: a.ID, Style: "danger"},
			}},
		)
	}
	return msg.Message{Fallback: fmt.Sprintf("%d approval(s) pending", len(approvals)), Blocks: blocks}
}
