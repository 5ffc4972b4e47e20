package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/openclaw/internal/config"
)

func channelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "Show configured channel integrations and their status",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				fmt.Printf("Error loading config: %v\n", err)
				return
			}
			fmt.Printf("%-12s %-10s %s\n", "CHANNEL", "ENABLED", "CREDENTIALS")
			checkChannel("telegram", cfg.Channels.Telegram.Enabled, cfg.Channels.Telegram.Token != "")
			checkChannel("discord", cfg.Channels.Discord.Enabled, cfg.Channels.Discord.Token != "")
			checkChannel("whatsapp", cfg.Channels.WhatsApp.Enabled, cfg.Channels.WhatsApp.BridgeURL != "")
			checkChannel("zalo", cfg.Channels.Zalo.Enabled, cfg.Channels.Zalo.Token != "")
			checkChannel("feishu", cfg.Channels.Feishu.Enabled, cfg.Channels.Feishu.AppID != "")
		},
	}
}
