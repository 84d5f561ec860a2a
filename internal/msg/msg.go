// Package msg defines the structured message vocabulary the bot emits and the
// transport contract that delivers it. The wire encoding (Slack Block Kit) is
// owned by the transport adapter; everything above it works with these types.
package msg

import "context"

// Block is one unit of rendered message content. The concrete variants form a
// closed set; the transport adapter maps each to its wire representation.
type Block interface {
	blockKind() string
}

type Header struct {
	Text string
}

// Section renders a single markdown paragraph.
type Section struct {
	Text string
}

// Fields renders a two-column grid of short markdown strings.
type Fields struct {
	Items []string
}

type Divider struct{}

type Button struct {
	Label    string
	ActionID string
	Value    string
	Style    string // "", "primary" or "danger"
}

type Actions struct {
	Buttons []Button
}

// Context renders a small footer line.
type Context struct {
	Text string
}

func (Header) blockKind() string  { return "header" }
func (Section) blockKind() string { return "section" }
func (Fields) blockKind() string  { return "fields" }
func (Divider) blockKind() string { return "divider" }
func (Actions) blockKind() string { return "actions" }
func (Context) blockKind() string { return "context" }

// Message is an ordered block sequence plus the plain-text fallback shown by
// clients that cannot render blocks.
type Message struct {
	Fallback string
	Blocks   []Block
}

// Plain builds a block-free message carrying only fallback text.
func Plain(text string) Message {
	return Message{Fallback: text}
}

type SendOptions struct {
	// ThreadTS scopes the message to an existing thread when set.
	ThreadTS string
}

// Transport delivers messages to a channel and edits previously sent ones.
// Send returns the platform timestamp of the new message, usable later as a
// thread or edit reference.
type Transport interface {
	Send(ctx context.Context, channelID string, m Message, opts SendOptions) (string, error)
	Update(ctx context.Context, channelID, messageTS string, m Message) error
}
