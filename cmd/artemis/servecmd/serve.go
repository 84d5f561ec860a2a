// Package servecmd runs the webhook gateway over HTTP.
package servecmd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lunarforge/artemis/internal/app"
	"github.com/lunarforge/artemis/internal/config"
)

func NewCommand(loggerFn func() *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the events + interactivity webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFn()
			cfg := config.FromViper()
			if listen, _ := cmd.Flags().GetString("listen"); strings.TrimSpace(listen) != "" {
				cfg.Listen = strings.TrimSpace(listen)
			}

			rt, err := app.Build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			server := &http.Server{
				Addr:              cfg.Listen,
				Handler:           rt.Gateway.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
				BaseContext:       func(_ net.Listener) context.Context { return cmd.Context() },
			}

			errCh := make(chan error, 1)
			go func() { errCh <- server.ListenAndServe() }()
			logger.Info("serve_start", "listen", cfg.Listen)

			select {
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdownCtx)
				logger.Info("serve_stop", "reason", "context_canceled")
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().String("listen", "", "Listen address (overrides serve.listen).")
	return cmd
}
