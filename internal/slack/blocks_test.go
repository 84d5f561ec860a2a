package slack

import (
	"reflect"
	"testing"

	"github.com/lunarforge/artemis/internal/msg"
)

func TestEncodeBlocks(t *testing.T) {
	t.Parallel()
	blocks := []msg.Block{
		msg.Header{Text: "Daily Briefing"},
		msg.Divider{},
		msg.Fields{Items: []string{"*A*\n1", "*B*\n2"}},
		msg.Section{Text: "hello"},
		msg.Actions{Buttons: []msg.Button{
			{Label: "Approve", ActionID: "approve_x", Value: "x", Style: "primary"},
			{Label: "Later", ActionID: "later_x", Value: "x"},
		}},
		msg.Context{Text: "footer"},
	}

	got := EncodeBlocks(blocks)
	if len(got) != len(blocks) {
		t.Fatalf("encoded %d blocks, want %d", len(got), len(blocks))
	}
	if got[0]["type"] != "header" {
		t.Fatalf("block 0 type = %v", got[0]["type"])
	}
	if got[1]["type"] != "divider" {
		t.Fatalf("block 1 type = %v", got[1]["type"])
	}
	fields := got[2]["fields"].([]map[string]any)
	if len(fields) != 2 || fields[0]["text"] != "*A*\n1" {
		t.Fatalf("fields = %v", fields)
	}
	section := got[3]["text"].(map[string]any)
	if section["type"] != "mrkdwn" || section["text"] != "hello" {
		t.Fatalf("section text = %v", section)
	}
	elements := got[4]["elements"].([]map[string]any)
	want := map[string]any{
		"type":      "button",
		"text":      map[string]any{"type": "plain_text", "text": "Approve", "emoji": true},
		"action_id": "approve_x",
		"value":     "x",
		"style":     "primary",
	}
	if !reflect.DeepEqual(elements[0], want) {
		t.Fatalf("button = %v, want %v", elements[0], want)
	}
	if _, hasStyle := elements[1]["style"]; hasStyle {
		t.Fatal("default-style button carries a style field")
	}
	if got[5]["type"] != "context" {
		t.Fatalf("block 5 type = %v", got[5]["type"])
	}
}

func TestEncodeBlocks_Empty(t *testing.T) {
	t.Parallel()
	if got := EncodeBlocks(nil); got != nil {
		t.Fatalf("EncodeBlocks(nil) = %v, want nil", got)
	}
}
