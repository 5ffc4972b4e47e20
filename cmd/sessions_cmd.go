package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclaw/openclaw/internal/config"
	"github.com/openclaw/openclaw/internal/sessions"
)

// sessionsCmd groups session-inspection subcommands under "goclaw sessions".
func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and manage agent conversation sessions",
	}
	cmd.AddCommand(sessionsListCmd())
	cmd.AddCommand(sessionsResetCmd())
	return cmd
}

func sessionsListCmd() *cobra.Command {
	var agentID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions for an agent",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				fmt.Printf("Error loading config: %v\n", err)
				return
			}
			mgr := sessions.NewManager(config.ExpandHome(cfg.Sessions.Storage))
			items := mgr.List(agentID)
			if len(items) == 0 {
				fmt.Println("No sessions found.")
				return
			}
			fmt.Printf("%-48s %-10s %s\n", "SESSION KEY", "MESSAGES", "UPDATED")
			for _, s := range items {
				fmt.Printf("%-48s %-10d %s\n", s.Key, s.MessageCount, s.Updated.Format("2006-01-02 15:04:05"))
			}
		},
	}
	cmd.Flags().StringVarP(&agentID, "agent", "a", "default", "agent id to filter by")
	return cmd
}

func sessionsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <session-key>",
		Short: "Clear a session's message history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				fmt.Printf("Error loading config: %v\n", err)
				return
			}
			mgr := sessions.NewManager(config.ExpandHome(cfg.Sessions.Storage))
			mgr.Reset(args[0])
			if err := mgr.Save(args[0]); err != nil {
				fmt.Printf("Error saving session store: %v\n", err)
				return
			}
			fmt.Printf("Session %q reset.\n", args[0])
		},
	}
}
