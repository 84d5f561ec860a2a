// Package app wires the process: store, transport, report builder,
// dispatcher, approval handler and gateway, all constructed once from the
// explicit configuration struct.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lunarforge/artemis/internal/approval"
	"github.com/lunarforge/artemis/internal/config"
	"github.com/lunarforge/artemis/internal/dispatch"
	"github.com/lunarforge/artemis/internal/gateway"
	"github.com/lunarforge/artemis/internal/report"
	"github.com/lunarforge/artemis/internal/slack"
	"github.com/lunarforge/artemis/internal/store"
)

type Runtime struct {
	Config     config.Config
	Store      *store.SQLite
	Slack      *slack.Client
	BotUserID  string
	Dispatcher *dispatch.Dispatcher
	Approvals  *approval.Handler
	Gateway    *gateway.Gateway
	Log        *slog.Logger
}

// Build constructs the full runtime. The Slack bot token is required; the
// bot's own user id is discovered via auth.test and used to filter echoes.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	if cfg.Slack.BotToken == "" {
		return nil, fmt.Errorf("missing slack.bot_token (set via config or ARTEMIS_SLACK_BOT_TOKEN)")
	}

	dsn, err := config.ResolveStoreDSN(cfg.StoreDSN)
	if err != nil {
		return nil, err
	}
	st, err := store.OpenSQLite(dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	client := slack.NewClient(&http.Client{Timeout: 30 * time.Second}, "", cfg.Slack.BotToken, cfg.Slack.AppToken)
	auth, err := client.AuthTest(ctx)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("slack auth.test: %w", err)
	}

	transport, err := slack.NewTransport(client)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	reports, err := report.New(report.Options{Store: st, Logger: logger})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	dispatcher, err := dispatch.New(dispatch.Options{Reports: reports, Transport: transport, Logger: logger})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	approvals, err := approval.New(approval.Options{
		Store:     st,
		Transport: transport,
		Reviewer:  cfg.Reviewer,
		Logger:    logger,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	gw, err := gateway.New(gateway.Options{
		SigningSecret: cfg.Slack.SigningSecret,
		BotUserID:     auth.UserID,
		Dispatcher:    dispatcher,
		Approvals:     approvals,
		Logger:        logger,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	logger.Info("runtime_ready", "bot_user_id", auth.UserID, "team", auth.Team, "store_dsn", dsn)
	return &Runtime{
		Config:     cfg,
		Store:      st,
		Slack:      client,
		BotUserID:  auth.UserID,
		Dispatcher: dispatcher,
		Approvals:  approvals,
		Gateway:    gw,
		Log:        logger,
	}, nil
}

func (r *Runtime) Close() error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Close()
}
