// Package report gathers aggregate business data per intent and renders it as
// ordered block sequences. Every read inside one assembler that is independent
// of the others runs concurrently; a failed read is logged and degrades to an
// empty collection so partial data still renders.
package report

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lunarforge/artemis/internal/store"
)

type Options struct {
	Store  store.Store
	Logger *slog.Logger
	Now    func() time.Time
}

type Builder struct {
	store store.Store
	log   *slog.Logger
	now   func() time.Time
}

func New(opts Options) (*Builder, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := opts.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &Builder{store: opts.Store, log: logger, now: nowFn}, nil
}

// readError downgrades a store read failure to an empty result.
func (b *Builder) readError(collection string, err error) {
	b.log.Warn("report_read_error", "collection", collection, "error", err.Error())
}

func money(amount float64) string {
	return "$" + humanize.Commaf(amount)
}

func field(label, value string) string {
	return "*" + label + "*\n" + value
}

func orDefault(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func tierEmoji(tier store.LeadTier) string {
	switch tier {
	case store.TierSoftball:
		return "\U0001F7E2"
	case store.TierMedium:
		return "\U0001F7E1"
	case store.TierHard:
		return "\U0001F534"
	case store.TierDisqualify:
		return "⚫"
	default:
		return "⚪"
	}
}

func projectEmoji(status store.ProjectStatus) string {
	switch status {
	case store.ProjectActive:
		return "\U0001F680"
	case store.ProjectPlanning:
		return "✏️"
	case store.ProjectPaused:
		return "⏸️"
	default:
		return "\U0001F4C1"
	}
}

func taskStatusEmoji(status store.TaskStatus) string {
	switch status {
	case store.TaskBlocked:
		return "⛔"
	case store.TaskInProgress:
		return "\U0001F6E0️"
	default:
		return "\U0001F4E5"
	}
}

func priorityEmoji(priority store.TaskPriority) string {
	switch priority {
	case store.PriorityUrgent:
		return "\U0001F6A8"
	case store.PriorityHigh:
		return "\U0001F525"
	case store.PriorityMedium:
		return "\U0001F7E1"
	case store.PriorityLow:
		return "⚪"
	default:
		return ""
	}
}

func riskEmoji(risk store.RiskLevel) string {
	switch risk {
	case store.RiskHigh:
		return "\U0001F6A8"
	case store.RiskMedium:
		return "⚠️"
	default:
		return "ℹ️"
	}
}
