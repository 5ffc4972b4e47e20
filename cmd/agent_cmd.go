package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/openclaw/internal/config"
)

// agentCmd groups agent-facing subcommands (chat, list) under "goclaw agent".
func agentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Interact with configured agents",
	}
	cmd.AddCommand(agentChatCmd())
	cmd.AddCommand(agentListCmd())
	return cmd
}

func agentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured agents",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				fmt.Printf("Error loading config: %v\n", err)
				return
			}
			fmt.Printf("%-20s %-12s %s\n", "AGENT", "PROVIDER", "MODEL")
			def := cfg.Agents.Defaults
			fmt.Printf("%-20s %-12s %s\n", "default", def.Provider, def.Model)
			for id := range cfg.Agents.List {
				ad := cfg.ResolveAgent(id)
				fmt.Printf("%-20s %-12s %s\n", id, ad.Provider, ad.Model)
			}
		},
	}
}
