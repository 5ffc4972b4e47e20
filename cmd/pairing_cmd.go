package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openclaw/openclaw/internal/config"
	"github.com/openclaw/openclaw/internal/pairing"
)

func openPairingService() *pairing.Service {
	dataDir := os.Getenv("OPENCLAW_DATA_DIR")
	if dataDir == "" {
		dataDir = config.ExpandHome("~/.openclaw/data")
	}
	os.MkdirAll(dataDir, 0755)
	return pairing.NewService(filepath.Join(dataDir, "pairing.json"))
}

func pairingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pairing",
		Short: "Approve or inspect pending channel pairing requests",
	}
	cmd.AddCommand(pairingListCmd())
	cmd.AddCommand(pairingApproveCmd())
	cmd.AddCommand(pairingRevokeCmd())
	return cmd
}

func pairingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending pairing requests",
		Run: func(cmd *cobra.Command, args []string) {
			svc := openPairingService()
			reqs := svc.List()
			if len(reqs) == 0 {
				fmt.Println("No pending pairing requests.")
				return
			}
			fmt.Printf("%-8s %-12s %-20s %s\n", "CODE", "CHANNEL", "SENDER", "EXPIRES")
			for _, r := range reqs {
				fmt.Printf("%-8s %-12s %-20s %s\n", r.Code, r.Channel, r.SenderID, r.ExpiresAt.Format("15:04:05"))
			}
		},
	}
}

func pairingApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <code>",
		Short: "Approve a pairing request by its code",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc := openPairingService()
			req, err := svc.Approve(args[0])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("Approved %s on %s (chat %s).\n", req.SenderID, req.Channel, req.ChatID)
		},
	}
}

func pairingRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <sender-id> <channel>",
		Short: "Revoke a sender's pairing on a channel",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			svc := openPairingService()
			if err := svc.Revoke(args[0], args[1]); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("Revoked pairing for %s on %s.\n", args[0], args[1])
		},
	}
}
