// Package gateway is the inbound boundary: it authenticates transport
// callbacks, filters echo/retry/edit noise, and feeds clean events into the
// classifier, dispatcher and approval handler. Both the HTTP events endpoint
// and the Socket Mode runner route through the same payload processing.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/lunarforge/artemis/internal/approval"
	"github.com/lunarforge/artemis/internal/dispatch"
	"github.com/lunarforge/artemis/internal/intent"
)

// maxRequestSize caps inbound bodies; transport payloads are small.
const maxRequestSize = 256 << 10

type Options struct {
	SigningSecret string
	BotUserID     string
	Dispatcher    *dispatch.Dispatcher
	Approvals     *approval.Handler
	Logger        *slog.Logger
	Now           func() time.Time
}

type Gateway struct {
	signingSecret string
	botUserID     string
	dispatcher    *dispatch.Dispatcher
	approvals     *approval.Handler
	log           *slog.Logger
	now           func() time.Time
}

func New(opts Options) (*Gateway, error) {
	if opts.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if opts.Approvals == nil {
		return nil, fmt.Errorf("approval handler is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	if opts.SigningSecret == "" {
		// Explicit security downgrade for local/dev use.
		logger.Warn("gateway_signature_verification_disabled")
	}
	return &Gateway{
		signingSecret: opts.SigningSecret,
		botUserID:     opts.BotUserID,
		dispatcher:    opts.Dispatcher,
		approvals:     opts.Approvals,
		log:           logger,
		now:           nowFn,
	}, nil
}

// Handler returns the HTTP surface: the events URL, the interactive URL and a
// health probe.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /slack/events", g.handleEvents)
	mux.HandleFunc("POST /slack/interactive", g.handleInteraction)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

type eventEnvelope struct {
	Type      string     `json:"type"`
	Challenge string     `json:"challenge"`
	EventID   string     `json:"event_id"`
	Event     slackEvent `json:"event"`
}

type slackEvent struct {
	Type        string `json:"type"`
	Subtype     string `json:"subtype"`
	User        string `json:"user"`
	BotID       string `json:"bot_id"`
	Text        string `json:"text"`
	Channel     string `json:"channel"`
	ChannelType string `json:"channel_type"`
	TS          string `json:"ts"`
	ThreadTS    string `json:"thread_ts"`
}

func (g *Gateway) readAndVerify(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		g.log.Warn("gateway_body_read_error", "error", err.Error())
		http.Error(w, "bad request", http.StatusBadRequest)
		return nil, false
	}
	if g.signingSecret == "" {
		return body, true
	}
	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	signature := r.Header.Get("X-Slack-Signature")
	if err := VerifySignature(g.signingSecret, timestamp, signature, body, g.now()); err != nil {
		g.log.Warn("gateway_signature_rejected", "error", err.Error())
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return body, true
}

func ack(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (g *Gateway) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, ok := g.readAndVerify(w, r)
	if !ok {
		return
	}

	var env eventEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		g.log.Warn("gateway_event_decode_error", "error", err.Error())
		ack(w)
		return
	}
	if env.Type == "url_verification" {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"challenge": env.Challenge})
		return
	}

	// Transport-level retries must not reprocess; the first delivery already
	// had its side effects.
	if r.Header.Get("X-Slack-Retry-Num") != "" {
		g.log.Debug("gateway_retry_suppressed", "event_id", env.EventID, "retry_num", r.Header.Get("X-Slack-Retry-Num"))
		ack(w)
		return
	}

	g.processEvent(r.Context(), env.Event)
	ack(w)
}

// ProcessEventPayload handles an events-API payload delivered outside the
// HTTP path (Socket Mode), where transport authentication already happened at
// connect time.
func (g *Gateway) ProcessEventPayload(ctx context.Context, payload []byte) {
	var env eventEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		g.log.Warn("gateway_event_decode_error", "error", err.Error())
		return
	}
	g.processEvent(ctx, env.Event)
}

// processEvent filters one message event and routes it into classification and
// dispatch. Events that are bot echoes, edits/deletes (any subtype), empty
// after mention stripping, or neither a direct mention nor a DM are ignored.
func (g *Gateway) processEvent(ctx context.Context, event slackEvent) {
	if event.Subtype != "" || event.BotID != "" {
		return
	}
	if event.User == "" || (g.botUserID != "" && event.User == g.botUserID) {
		return
	}
	text := intent.StripMentions(event.Text)
	if text == "" {
		return
	}
	if event.Type != "app_mention" && event.ChannelType != "im" {
		return
	}

	in := intent.Classify(text)
	g.log.Info("gateway_message_routed", "intent", string(in), "channel_id", event.Channel, "user_id", event.User)
	if err := g.dispatcher.Dispatch(ctx, in, text, event.Channel, event.ThreadTS); err != nil {
		g.log.Warn("gateway_dispatch_error", "intent", string(in), "channel_id", event.Channel, "error", err.Error())
	}
}

type interactionPayload struct {
	Type string `json:"type"`
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
	Container struct {
		MessageTS string `json:"message_ts"`
	} `json:"container"`
	Message struct {
		TS string `json:"ts"`
	} `json:"message"`
	Actions []struct {
		ActionID string `json:"action_id"`
		Value    string `json:"value"`
	} `json:"actions"`
}

func (g *Gateway) handleInteraction(w http.ResponseWriter, r *http.Request) {
	body, ok := g.readAndVerify(w, r)
	if !ok {
		return
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		g.log.Warn("gateway_interaction_decode_error", "error", err.Error())
		ack(w)
		return
	}
	g.ProcessInteraction(r.Context(), []byte(values.Get("payload")))
	ack(w)
}

// ProcessInteraction routes a button-click payload to the approval handler
// when its action id follows the approve/reject convention. Malformed or
// unrecognized payloads are acknowledged no-ops.
func (g *Gateway) ProcessInteraction(ctx context.Context, payload []byte) {
	var p interactionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		g.log.Warn("gateway_interaction_payload_error", "error", err.Error())
		return
	}
	if len(p.Actions) == 0 {
		return
	}
	action := p.Actions[0]
	if !approval.MatchesActionID(action.ActionID) {
		g.log.Debug("gateway_interaction_ignored", "action_id", action.ActionID)
		return
	}
	messageTS := p.Message.TS
	if messageTS == "" {
		messageTS = p.Container.MessageTS
	}
	g.approvals.HandleAction(ctx, action.ActionID, action.Value, p.Channel.ID, messageTS)
}
