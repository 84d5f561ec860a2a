// Package briefingcmd posts the daily briefing to the configured channel as a
// one-shot run, for cron-driven morning posts.
package briefingcmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lunarforge/artemis/internal/app"
	"github.com/lunarforge/artemis/internal/config"
	"github.com/lunarforge/artemis/internal/intent"
)

func NewCommand(loggerFn func() *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Post the daily briefing and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFn()
			cfg := config.FromViper()
			channelID := cfg.Slack.ChannelID
			if flag, _ := cmd.Flags().GetString("channel"); strings.TrimSpace(flag) != "" {
				channelID = strings.TrimSpace(flag)
			}
			if channelID == "" {
				return fmt.Errorf("missing channel (set slack.channel_id or pass --channel)")
			}

			rt, err := app.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			if err := rt.Dispatcher.Dispatch(cmd.Context(), intent.Briefing, "briefing", channelID, ""); err != nil {
				return err
			}
			logger.Info("briefing_posted", "channel_id", channelID)
			return nil
		},
	}
	cmd.Flags().String("channel", "", "Channel to post to (overrides slack.channel_id).")
	return cmd
}
