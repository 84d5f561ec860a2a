package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/lunarforge/artemis/internal/approval"
	"github.com/lunarforge/artemis/internal/dispatch"
	"github.com/lunarforge/artemis/internal/msg"
	"github.com/lunarforge/artemis/internal/report"
	"github.com/lunarforge/artemis/internal/store"
)

type fakeTransport struct {
	sent  []msg.Message
	edits []msg.Message
}

func (f *fakeTransport) Send(_ context.Context, _ string, m msg.Message, _ msg.SendOptions) (string, error) {
	f.sent = append(f.sent, m)
	return "1700000000.000100", nil
}

func (f *fakeTransport) Update(_ context.Context, _, _ string, m msg.Message) error {
	f.edits = append(f.edits, m)
	return nil
}

const testSecret = "s3cr3t"

var testNow = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

func newGateway(t *testing.T, mem *store.Memory, transport *fakeTransport) *Gateway {
	t.Helper()
	reports, err := report.New(report.Options{Store: mem, Now: func() time.Time { return testNow }})
	if err != nil {
		t.Fatalf("report.New() error = %v", err)
	}
	dispatcher, err := dispatch.New(dispatch.Options{Reports: reports, Transport: transport})
	if err != nil {
		t.Fatalf("dispatch.New() error = %v", err)
	}
	approvals, err := approval.New(approval.Options{Store: mem, Transport: transport, Reviewer: "dana", Now: func() time.Time { return testNow }})
	if err != nil {
		t.Fatalf("approval.New() error = %v", err)
	}
	g, err := New(Options{
		SigningSecret: testSecret,
		BotUserID:     "UBOT",
		Dispatcher:    dispatcher,
		Approvals:     approvals,
		Now:           func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}

func signedRequest(t *testing.T, target string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(string(body)))
	timestamp := strconv.FormatInt(testNow.Unix(), 10)
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", sign(testSecret, timestamp, body))
	return req
}

func eventBody(t *testing.T, event slackEvent) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"type":     "event_callback",
		"event_id": "Ev1",
		"event":    event,
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return body
}

func TestNew_RequiredDeps(t *testing.T) {
	t.Parallel()
	mem := store.NewMemory()
	transport := &fakeTransport{}
	reports, err := report.New(report.Options{Store: mem})
	if err != nil {
		t.Fatalf("report.New() error = %v", err)
	}
	dispatcher, err := dispatch.New(dispatch.Options{Reports: reports, Transport: transport})
	if err != nil {
		t.Fatalf("dispatch.New() error = %v", err)
	}
	approvals, err := approval.New(approval.Options{Store: mem, Transport: transport})
	if err != nil {
		t.Fatalf("approval.New() error = %v", err)
	}

	if _, err := New(Options{Approvals: approvals}); err == nil {
		t.Fatal("New() without a dispatcher returned no error")
	}
	if _, err := New(Options{Dispatcher: dispatcher}); err == nil {
		t.Fatal("New() without an approval handler returned no error")
	}
	if _, err := New(Options{Dispatcher: dispatcher, Approvals: approvals}); err != nil {
		t.Fatalf("New() with both deps error = %v", err)
	}
}

func TestHandleEvents_URLVerification(t *testing.T) {
	t.Parallel()
	g := newGateway(t, store.NewMemory(), &fakeTransport{})
	body := []byte(`{"type":"url_verification","challenge":"ch4ll3ng3"}`)
	rec := httptest.NewRecorder()
	g.Handler().ServeHTTP(rec, signedRequest(t, "/slack/events", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["challenge"] != "ch4ll3ng3" {
		t.Fatalf("challenge = %q", resp["challenge"])
	}
}

func TestHandleEvents_BadSignature(t *testing.T) {
	t.Parallel()
	transport := &fakeTransport{}
	g := newGateway(t, store.NewMemory(), transport)
	body := eventBody(t, slackEvent{Type: "app_mention", User: "U1", Text: "<@UBOT> briefing", Channel: "C1"})
	req := signedRequest(t, "/slack/events", body)
	req.Header.Set("X-Slack-Signature", "v0=0000000000000000000000000000000000000000000000000000000000000000")
	rec := httptest.NewRecorder()
	g.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if len(transport.sent) != 0 {
		t.Fatal("message dispatched despite bad signature")
	}
}

func TestHandleEvents_RetrySuppressed(t *testing.T) {
	t.Parallel()
	transport := &fakeTransport{}
	g := newGateway(t, store.NewMemory(), transport)
	body := eventBody(t, slackEvent{Type: "app_mention", User: "U1", Text: "<@UBOT> briefing", Channel: "C1"})
	req := signedRequest(t, "/slack/events", body)
	req.Header.Set("X-Slack-Retry-Num", "1")
	rec := httptest.NewRecorder()
	g.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(transport.sent) != 0 {
		t.Fatal("retry delivery was reprocessed")
	}
}

func TestHandleEvents_MentionRouted(t *testing.T) {
	t.Parallel()
	transport := &fakeTransport{}
	g := newGateway(t, store.NewMemory(), transport)
	body := eventBody(t, slackEvent{Type: "app_mention", User: "U1", Text: "<@UBOT> tasks", Channel: "C1", TS: "1699.0001"})
	rec := httptest.NewRecorder()
	g.Handler().ServeHTTP(rec, signedRequest(t, "/slack/events", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(transport.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(transport.sent))
	}
	if transport.sent[0].Fallback != "No open tasks. Clear plate." {
		t.Fatalf("response fallback = %q", transport.sent[0].Fallback)
	}
}

func TestProcessEventPayload_Filtering(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		event slackEvent
	}{
		{"bot echo", slackEvent{Type: "message", ChannelType: "im", BotID: "B1", Text: "briefing", Channel: "C1"}},
		{"own message", slackEvent{Type: "message", ChannelType: "im", User: "UBOT", Text: "briefing", Channel: "C1"}},
		{"edited message", slackEvent{Type: "message", ChannelType: "im", Subtype: "message_changed", User: "U1", Text: "briefing", Channel: "C1"}},
		{"mention only", slackEvent{Type: "app_mention", User: "U1", Text: "<@UBOT>", Channel: "C1"}},
		{"channel chatter without mention", slackEvent{Type: "message", ChannelType: "channel", User: "U1", Text: "briefing", Channel: "C1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transport := &fakeTransport{}
			g := newGateway(t, store.NewMemory(), transport)
			g.ProcessEventPayload(context.Background(), eventBody(t, tc.event))
			if len(transport.sent) != 0 {
				t.Fatalf("event was dispatched, want ignored")
			}
		})
	}
}

func TestProcessEventPayload_DirectMessageRouted(t *testing.T) {
	t.Parallel()
	transport := &fakeTransport{}
	g := newGateway(t, store.NewMemory(), transport)
	g.ProcessEventPayload(context.Background(), eventBody(t, slackEvent{
		Type: "message", ChannelType: "im", User: "U1", Text: "pipeline", Channel: "D1",
	}))
	if len(transport.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(transport.sent))
	}
	if transport.sent[0].Fallback != "Pipeline is empty. No leads yet." {
		t.Fatalf("response fallback = %q", transport.sent[0].Fallback)
	}
}

func TestHandleInteraction_ApproveButton(t *testing.T) {
	t.Parallel()
	mem := store.NewMemory()
	_ = mem.PutApproval(context.Background(), store.ApprovalRequest{
		ID: "apr-1", ActionType: "send_invoice", CreatedAt: testNow.Add(-time.Hour),
	})
	transport := &fakeTransport{}
	g := newGateway(t, mem, transport)

	payload, _ := json.Marshal(map[string]any{
		"type":      "block_actions",
		"user":      map[string]string{"id": "U1", "username": "dana"},
		"channel":   map[string]string{"id": "C1"},
		"container": map[string]string{"message_ts": "1699.0009"},
		"actions": []map[string]string{
			{"action_id": "approve_apr-1", "value": "apr-1"},
		},
	})
	form := url.Values{"payload": {string(payload)}}
	body := []byte(form.Encode())
	rec := httptest.NewRecorder()
	g.Handler().ServeHTTP(rec, signedRequest(t, "/slack/interactive", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	pending, _ := mem.PendingApprovals(context.Background())
	if len(pending) != 0 {
		t.Fatal("approval still pending after button click")
	}
	if len(transport.edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(transport.edits))
	}
}

func TestProcessInteraction_UnrelatedActionIgnored(t *testing.T) {
	t.Parallel()
	mem := store.NewMemory()
	_ = mem.PutApproval(context.Background(), store.ApprovalRequest{ID: "apr-1", ActionType: "refund", CreatedAt: testNow})
	transport := &fakeTransport{}
	g := newGateway(t, mem, transport)

	payload := []byte(`{"type":"block_actions","actions":[{"action_id":"open_settings","value":"x"}]}`)
	g.ProcessInteraction(context.Background(), payload)

	pending, _ := mem.PendingApprovals(context.Background())
	if len(pending) != 1 {
		t.Fatal("unrelated action mutated an approval")
	}
	if len(transport.edits) != 0 {
		t.Fatal("unrelated action edited a message")
	}
}
