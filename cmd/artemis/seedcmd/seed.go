// Package seedcmd loads fixture rows into the local store, for demos and
// development against a realistic dataset.
package seedcmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/lunarforge/artemis/internal/config"
	"github.com/lunarforge/artemis/internal/seed"
	"github.com/lunarforge/artemis/internal/store"
)

func NewCommand(loggerFn func() *slog.Logger) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load fixture data into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFn()
			cfg := config.FromViper()

			fixture, err := seed.Load(file)
			if err != nil {
				return fmt.Errorf("load fixture: %w", err)
			}

			dsn, err := config.ResolveStoreDSN(cfg.StoreDSN)
			if err != nil {
				return err
			}
			st, err := store.OpenSQLite(dsn)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer func() { _ = st.Close() }()

			n, err := seed.Apply(cmd.Context(), st, fixture, time.Now())
			if err != nil {
				return fmt.Errorf("apply fixture: %w", err)
			}
			logger.Info("seed_applied", "rows", n, "dsn", dsn)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to a YAML fixture file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
