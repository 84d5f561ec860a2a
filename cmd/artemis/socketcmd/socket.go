// Package socketcmd runs the bot over Slack Socket Mode, for environments
// without a public HTTPS endpoint. Events flow through the same filtering and
// dispatch as the webhook path; transport authentication happens at connect
// time, so no per-request signature applies here.
package socketcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/lunarforge/artemis/internal/app"
	"github.com/lunarforge/artemis/internal/config"
	"github.com/lunarforge/artemis/internal/slack"
)

func NewCommand(loggerFn func() *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "socket",
		Short: "Run the bot over Socket Mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFn()
			cfg := config.FromViper()
			if cfg.Slack.AppToken == "" {
				return fmt.Errorf("missing slack.app_token (set via config or ARTEMIS_SLACK_APP_TOKEN)")
			}

			rt, err := app.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			for {
				if cmd.Context().Err() != nil {
					logger.Info("socket_stop", "reason", "context_canceled")
					return nil
				}
				conn, err := rt.Slack.ConnectSocket(cmd.Context())
				if err != nil {
					if cmd.Context().Err() != nil {
						logger.Info("socket_stop", "reason", "context_canceled")
						return nil
					}
					logger.Warn("socket_connect_error", "error", err.Error())
					if err := sleepWithContext(cmd.Context(), 2*time.Second); err != nil {
						return nil
					}
					continue
				}
				logger.Info("socket_connected")
				readErr := slack.ConsumeSocket(cmd.Context(), conn, func(envelope slack.SocketEnvelope) error {
					switch envelope.Type {
					case "events_api":
						rt.Gateway.ProcessEventPayload(cmd.Context(), envelope.Payload)
					case "interactive":
						rt.Gateway.ProcessInteraction(cmd.Context(), envelope.Payload)
					}
					return nil
				})
				_ = conn.Close()
				if readErr != nil && !errors.Is(readErr, context.Canceled) && !errors.Is(readErr, context.DeadlineExceeded) {
					logger.Warn("socket_read_error", "error", readErr.Error())
				}
			}
		},
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
