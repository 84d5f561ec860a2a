// Package approval processes approve/reject button interactions: one
// conditional state transition on the matching approval request, then an
// in-place edit of the originating message.
package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lunarforge/artemis/internal/msg"
	"github.com/lunarforge/artemis/internal/store"
)

const (
	approvePrefix = "approve_"
	rejectPrefix  = "reject_"
)

// MatchesActionID reports whether an interactive action id follows the
// approve_<id> / reject_<id> convention this handler owns.
func MatchesActionID(actionID string) bool {
	return strings.HasPrefix(actionID, approvePrefix) || strings.HasPrefix(actionID, rejectPrefix)
}

type Options struct {
	Store     store.Store
	Transport msg.Transport
	Reviewer  string
	Logger    *slog.Logger
	Now       func() time.Time
}

type Handler struct {
	store     store.Store
	transport msg.Transport
	reviewer  string
	log       *slog.Logger
	now       func() time.Time
}

func New(opts Options) (*Handler, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if opts.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	reviewer := strings.TrimSpace(opts.Reviewer)
	if reviewer == "" {
		reviewer = "operator"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Handler{
		store:     opts.Store,
		transport: opts.Transport,
		reviewer:  reviewer,
		log:       logger,
		now:       nowFn,
	}, nil
}

// HandleAction applies the decision encoded in actionID to the approval
// request identified by value (the id embedded in the action id is redundant;
// value is canonical when present). A request that is gone or already decided
// is logged and left alone, and the originating message is not touched. Once
// the transition commits, any failure editing the message is logged and
// swallowed; the decision is never rolled back.
func (h *Handler) HandleAction(ctx context.Context, actionID, value, channelID, messageTS string) {
	var status store.ApprovalStatus
	switch {
	case strings.HasPrefix(actionID, approvePrefix):
		status = store.ApprovalApproved
	case strings.HasPrefix(actionID, rejectPrefix):
		status = store.ApprovalRejected
	default:
		h.log.Warn("approval_action_unrecognized", "action_id", actionID)
		return
	}

	id := strings.TrimSpace(value)
	if id == "" {
		id = strings.TrimPrefix(strings.TrimPrefix(actionID, approvePrefix), rejectPrefix)
	}

	decidedAt := h.now().UTC()
	rec, err := h.store.DecideApproval(ctx, id, status, h.reviewer, decidedAt)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyDecided):
			h.log.Info("approval_already_decided", "approval_id", id)
		case errors.Is(err, store.ErrNotFound):
			h.log.Warn("approval_not_found", "approval_id", id)
		default:
			h.log.Warn("approval_update_error", "approval_id", id, "error", err.Error())
		}
		return
	}
	h.log.Info("approval_decided", "approval_id", rec.ID, "status", string(rec.Status), "reviewer", h.reviewer)

	if channelID == "" || messageTS == "" {
		return
	}
	if err := h.transport.Update(ctx, channelID, messageTS, decisionMessage(rec, decidedAt)); err != nil {
		h.log.Warn("approval_message_edit_error", "approval_id", rec.ID, "error", err.Error())
	}
}

func decisionMessage(rec store.ApprovalRequest, decidedAt time.Time) msg.Message {
	mark := "✅"
	if rec.Status == store.ApprovalRejected {
		mark = "❌"
	}
	decision := strings.ToUpper(string(rec.Status))
	body := fmt.Sprintf("%s *%s* — %s\n%s", mark, decision, rec.ActionType, rec.Description)
	footer := fmt.Sprintf("Decided by %s · %s", rec.ReviewedBy, decidedAt.Format("Jan 2, 2006 3:04 PM"))
	return msg.Message{
		Fallback: decision + ": " + rec.ActionType,
		Blocks: []msg.Block{
			msg.Section{Text: body},
			msg.Context{Text: footer},
		},
	}
}
