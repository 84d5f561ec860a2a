package slack

import (
	"context"
	"fmt"

	"github.com/lunarforge/artemis/internal/msg"
)

// Transport adapts Client to the msg.Transport contract.
type Transport struct {
	client *Client
}

func NewTransport(client *Client) (*Transport, error) {
	if client == nil {
		return nil, fmt.Errorf("slack client is required")
	}
	return &Transport{client: client}, nil
}

func (t *Transport) Send(ctx context.Context, channelID string, m msg.Message, opts msg.SendOptions) (string, error) {
	return t.client.PostMessage(ctx, channelID, m.Fallback, EncodeBlocks(m.Blocks), opts.ThreadTS)
}

func (t *Transport) Update(ctx context.Context, channelID, messageTS string, m msg.Message) error {
	return t.client.UpdateMessage(ctx, channelID, messageTS, m.Fallback, EncodeBlocks(m.Blocks))
}
