// Package dispatch routes classified intents to their report assembler and
// delivers the result. It performs no data access of its own.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lunarforge/artemis/internal/intent"
	"github.com/lunarforge/artemis/internal/msg"
	"github.com/lunarforge/artemis/internal/report"
)

type Options struct {
	Reports   *report.Builder
	Transport msg.Transport
	Logger    *slog.Logger
}

type Dispatcher struct {
	reports   *report.Builder
	transport msg.Transport
	log       *slog.Logger
}

func New(opts Options) (*Dispatcher, error) {
	if opts.Reports == nil {
		return nil, fmt.Errorf("report builder is required")
	}
	if opts.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{reports: opts.Reports, transport: opts.Transport, log: logger}, nil
}

// Assemble maps an intent to its assembler's output. briefing and status are
// aliases of the same overview; unknown echoes the (mention-stripped) text.
func (d *Dispatcher) Assemble(ctx context.Context, in intent.Intent, text string) msg.Message {
	switch in {
	case intent.Briefing, intent.Status:
		return d.reports.Briefing(ctx)
	case intent.Pipeline:
		return d.reports.Pipeline(ctx)
	case intent.Money:
		return d.reports.Money(ctx)
	case intent.Projects:
		return d.reports.Projects(ctx)
	case intent.Tasks:
		return d.reports.Tasks(ctx)
	case intent.Approve:
		return d.reports.PendingApprovals(ctx)
	case intent.Help:
		return d.reports.Help()
	default:
		return d.reports.Unknown(text)
	}
}

// Dispatch assembles the response for in and sends it to the channel, inside
// the thread when threadTS is set. Delivery errors are returned for the
// caller to log; they are never retried.
func (d *Dispatcher) Dispatch(ctx context.Context, in intent.Intent, text, channelID, threadTS string) error {
	m := d.Assemble(ctx, in, text)
	_, err := d.transport.Send(ctx, channelID, m, msg.SendOptions{ThreadTS: threadTS})
	if err != nil {
		return fmt.Errorf("send %s response: %w", in, err)
	}
	d.log.Info("intent_dispatched", "intent", string(in), "channel_id", channelID, "thread_ts", threadTS)
	return nil
}
