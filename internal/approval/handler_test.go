package approval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lunarforge/artemis/internal/msg"
	"github.com/lunarforge/artemis/internal/store"
)

type editCall struct {
	ChannelID string
	MessageTS string
	Message   msg.Message
}

type fakeTransport struct {
	edits     []editCall
	updateErr error
}

func (f *fakeTransport) Send(context.Context, string, msg.Message, msg.SendOptions) (string, error) {
	return "1700000000.000100", nil
}

func (f *fakeTransport) Update(_ context.Context, channelID, messageTS string, m msg.Message) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.edits = append(f.edits, editCall{ChannelID: channelID, MessageTS: messageTS, Message: m})
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 9, 15, 4, 0, 0, time.UTC)
}

func newHandler(t *testing.T, st store.Store, transport msg.Transport) *Handler {
	t.Helper()
	h, err := New(Options{Store: st, Transport: transport, Reviewer: "dana", Now: fixedNow})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return h
}

func seedApproval(t *testing.T, mem *store.Memory, id string) {
	t.Helper()
	err := mem.PutApproval(context.Background(), store.ApprovalRequest{
		ID:          id,
		ActionType:  "send_invoice",
		Description: "Invoice #88 to Initech",
		RiskLevel:   store.RiskMedium,
		CreatedAt:   fixedNow().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("PutApproval() error = %v", err)
	}
}

func TestHandleAction_Approve(t *testing.T) {
	t.Parallel()
	mem := store.NewMemory()
	seedApproval(t, mem, "apr-1")
	transport := &fakeTransport{}
	h := newHandler(t, mem, transport)

	h.HandleAction(context.Background(), "approve_apr-1", "apr-1", "C123", "1699.0001")

	pending, err := mem.PendingApprovals(context.Background())
	if err != nil {
		t.Fatalf("PendingApprovals() error = %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("still %d pending after approve", len(pending))
	}
	if len(transport.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(transport.edits))
	}
	edit := transport.edits[0]
	if edit.ChannelID != "C123" || edit.MessageTS != "1699.0001" {
		t.Fatalf("edit target = %q/%q", edit.ChannelID, edit.MessageTS)
	}
	body := edit.Message.Blocks[0].(msg.Section).Text
	if !strings.Contains(body, "*APPROVED*") || !strings.Contains(body, "send_invoice") {
		t.Fatalf("edit body = %q", body)
	}
	footer := edit.Message.Blocks[1].(msg.Context).Text
	if footer != "Decided by dana · Mar 9, 2026 3:04 PM" {
		t.Fatalf("edit footer = %q", footer)
	}
}

func TestHandleAction_Reject(t *testing.T) {
	t.Parallel()
	mem := store.NewMemory()
	seedApproval(t, mem, "apr-2")
	transport := &fakeTransport{}
	h := newHandler(t, mem, transport)

	h.HandleAction(context.Background(), "reject_apr-2", "apr-2", "C123", "1699.0002")

	if _, err := mem.DecideApproval(context.Background(), "apr-2", store.ApprovalApproved, "x", fixedNow()); !errors.Is(err, store.ErrAlreadyDecided) {
		t.Fatalf("second decision error = %v, want ErrAlreadyDecided", err)
	}
	if len(transport.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(transport.edits))
	}
	body := transport.edits[0].Message.Blocks[0].(msg.Section).Text
	if !strings.Contains(body, "*REJECTED*") {
		t.Fatalf("edit body = %q", body)
	}
}

// The second click on an already decided request leaves the record and the
// message alone.
func TestHandleAction_SecondClickIsNoop(t *testing.T) {
	t.Parallel()
	mem := store.NewMemory()
	seedApproval(t, mem, "apr-3")
	transport := &fakeTransport{}
	h := newHandler(t, mem, transport)

	h.HandleAction(context.Background(), "approve_apr-3", "apr-3", "C123", "1699.0003")
	h.HandleAction(context.Background(), "reject_apr-3", "apr-3", "C123", "1699.0003")

	if len(transport.edits) != 1 {
		t.Fatalf("edits = %d, want exactly 1", len(transport.edits))
	}
	if strings.Contains(transport.edits[0].Message.Blocks[0].(msg.Section).Text, "REJECTED") {
		t.Fatal("first decision was overwritten by the second click")
	}
}

func TestHandleAction_UnknownID(t *testing.T) {
	t.Parallel()
	transport := &fakeTransport{}
	h := newHandler(t, store.NewMemory(), transport)
	h.HandleAction(context.Background(), "approve_ghost", "ghost", "C123", "1699.0004")
	if len(transport.edits) != 0 {
		t.Fatalf("edits = %d, want 0 for unknown id", len(transport.edits))
	}
}

// The id can ride only in the action id suffix when the button value is empty.
func TestHandleAction_IDFromActionID(t *testing.T) {
	t.Parallel()
	mem := store.NewMemory()
	seedApproval(t, mem, "apr-4")
	transport := &fakeTransport{}
	h := newHandler(t, mem, transport)
	h.HandleAction(context.Background(), "approve_apr-4", "", "C123", "1699.0005")
	if len(transport.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(transport.edits))
	}
}

// A failed message edit never rolls back the decision.
func TestHandleAction_EditFailureKeepsDecision(t *testing.T) {
	t.Parallel()
	mem := store.NewMemory()
	seedApproval(t, mem, "apr-5")
	transport := &fakeTransport{updateErr: errors.New("message_not_found")}
	h := newHandler(t, mem, transport)

	h.HandleAction(context.Background(), "approve_apr-5", "apr-5", "C123", "1699.0006")

	pending, _ := mem.PendingApprovals(context.Background())
	if len(pending) != 0 {
		t.Fatal("decision rolled back after edit failure")
	}
}

func TestMatchesActionID(t *testing.T) {
	t.Parallel()
	cases := []struct {
		id   string
		want bool
	}{
		{"approve_apr-1", true},
		{"reject_apr-1", true},
		{"open_modal", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := MatchesActionID(tc.id); got != tc.want {
			t.Errorf("MatchesActionID(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
