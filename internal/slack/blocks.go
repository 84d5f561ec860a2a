package slack

import "github.com/lunarforge/artemis/internal/msg"

// EncodeBlocks maps the abstract block vocabulary to Block Kit JSON shapes.
func EncodeBlocks(blocks []msg.Block) []map[string]any {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		switch v := b.(type) {
		case msg.Header:
			out = append(out, map[string]any{
				"type": "header",
				"text": map[string]any{"type": "plain_text", "text": v.Text, "emoji": true},
			})
		case msg.Section:
			out = append(out, map[string]any{
				"type": "section",
				"text": map[string]any{"type": "mrkdwn", "text": v.Text},
			})
		case msg.Fields:
			fields := make([]map[string]any, 0, len(v.Items))
			for _, item := range v.Items {
				fields = append(fields, map[string]any{"type": "mrkdwn", "text": item})
			}
			out = append(out, map[string]any{"type": "section", "fields": fields})
		case msg.Divider:
			out = append(out, map[string]any{"type": "divider"})
		case msg.Actions:
			elements := make([]map[string]any, 0, len(v.Buttons))
			for _, btn := range v.Buttons {
				element := map[string]any{
					"type":      "button",
					"text":      map[string]any{"type": "plain_text", "text": btn.Label, "emoji": true},
					"action_id": btn.ActionID,
					"value":     btn.Value,
				}
				if btn.Style != "" {
					element["style"] = btn.Style
				}
				elements = append(elements, element)
			}
			out = append(out, map[string]any{"type": "actions", "elements": elements})
		case msg.Context:
			out = append(out, map[string]any{
				"type":     "context",
				"elements": []map[string]any{{"type": "mrkdwn", "text": v.Text}},
			})
		}
	}
	return out
}
