package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lunarforge/artemis/cmd/artemis/briefingcmd"
	"github.com/lunarforge/artemis/cmd/artemis/seedcmd"
	"github.com/lunarforge/artemis/cmd/artemis/servecmd"
	"github.com/lunarforge/artemis/cmd/artemis/socketcmd"
	"github.com/lunarforge/artemis/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "artemis",
		Short:         "Artemis business operations bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(servecmd.NewCommand(newLogger))
	rootCmd.AddCommand(briefingcmd.NewCommand(newLogger))
	rootCmd.AddCommand(socketcmd.NewCommand(newLogger))
	rootCmd.AddCommand(seedcmd.NewCommand(newLogger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home + "/.artemis")
	}
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("ARTEMIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "config:", err)
		}
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(viper.GetString("log.level")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
