// Package config builds the one explicit configuration struct the process
// constructs at start and threads into every component, instead of letting
// components read ambient global state.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type SlackConfig struct {
	BotToken      string
	AppToken      string
	SigningSecret string
	// ChannelID is the default channel for posts not tied to an inbound
	// message.
	ChannelID string
}

type Config struct {
	Slack SlackConfig
	// Reviewer is the fixed identity stamped on approval decisions.
	Reviewer string
	StoreDSN string
	Listen   string
	LogLevel string
}

// SetDefaults registers the viper defaults. Keys resolve from config file or
// the ARTEMIS_* environment (slack.bot_token -> ARTEMIS_SLACK_BOT_TOKEN).
func SetDefaults() {
	viper.SetDefault("approvals.reviewer", "operator")
	viper.SetDefault("serve.listen", ":3000")
	viper.SetDefault("log.level", "info")
}

func FromViper() Config {
	return Config{
		Slack: SlackConfig{
			BotToken:      strings.TrimSpace(viper.GetString("slack.bot_token")),
			AppToken:      strings.TrimSpace(viper.GetString("slack.app_token")),
			SigningSecret: strings.TrimSpace(viper.GetString("slack.signing_secret")),
			ChannelID:     strings.TrimSpace(viper.GetString("slack.channel_id")),
		},
		Reviewer: strings.TrimSpace(viper.GetString("approvals.reviewer")),
		StoreDSN: strings.TrimSpace(viper.GetString("store.dsn")),
		Listen:   strings.TrimSpace(viper.GetString("serve.listen")),
		LogLevel: strings.TrimSpace(viper.GetString("log.level")),
	}
}

// ResolveStoreDSN picks the database location when none is configured.
// Precedence: configured dsn, then an existing ~/.artemis/artemis.sqlite,
// then an existing ./artemis.sqlite, then a fresh ~/.artemis/artemis.sqlite.
func ResolveStoreDSN(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn != "" {
		return dsn, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	homeDir := filepath.Join(home, ".artemis")
	homeDB := filepath.Join(homeDir, "artemis.sqlite")
	localDB := filepath.Clean("./artemis.sqlite")

	if _, err := os.Stat(homeDB); err == nil {
		return homeDB, nil
	}
	if _, err := os.Stat(localDB); err == nil {
		return localDB, nil
	}
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		return "", err
	}
	return homeDB, nil
}
