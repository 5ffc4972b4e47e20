package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openclaw/openclaw/internal/config"
	"github.com/openclaw/openclaw/internal/cron"
	"github.com/openclaw/openclaw/internal/store"
	"github.com/openclaw/openclaw/internal/store/file"
)

// openCronStore opens the same cron job file the gateway uses, without
// starting its scheduling loop — CLI subcommands just read/write jobs.json.
func openCronStore() (store.CronStore, error) {
	dataDir := os.Getenv("OPENCLAW_DATA_DIR")
	if dataDir == "" {
		dataDir = config.ExpandHome("~/.openclaw/data")
	}
	if err := os.MkdirAll(filepath.Join(dataDir, "cron"), 0755); err != nil {
		return nil, err
	}
	path := filepath.Join(dataDir, "cron", "jobs.json")
	return file.NewFileCronStore(cron.NewService(path, nil)), nil
}

func cronCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cron",
		Short: "Manage scheduled agent jobs",
	}
	cmd.AddCommand(cronListCmd())
	cmd.AddCommand(cronDeleteCmd())
	cmd.AddCommand(cronToggleCmd(true))
	cmd.AddCommand(cronToggleCmd(false))
	return cmd
}

func cronListCmd() *cobra.Command {
	var agentID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled jobs",
		Run: func(cmd *cobra.Command, args []string) {
			cs, err := openCronStore()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			jobs := cs.List(agentID)
			if len(jobs) == 0 {
				fmt.Println("No cron jobs found.")
				return
			}
			fmt.Printf("%-12s %-20s %-16s %-8s %s\n", "ID", "NAME", "SCHEDULE", "ENABLED", "LAST STATUS")
			for _, j := range jobs {
				fmt.Printf("%-12s %-20s %-16s %-8v %s\n", j.ID, j.Name, j.Schedule, j.Enabled, j.LastStatus)
			}
		},
	}
	cmd.Flags().StringVarP(&agentID, "agent", "a", "", "filter by agent id (empty = all)")
	return cmd
}

func cronDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a scheduled job",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cs, err := openCronStore()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			if err := cs.Delete(args[0]); err != nil {
				fmt.Printf("Error deleting job: %v\n", err)
				return
			}
			fmt.Printf("Job %q deleted.\n", args[0])
		},
	}
}

func cronToggleCmd(enable bool) *cobra.Command {
	use := "disable <job-id>"
	short := "Disable a scheduled job"
	if enable {
		use = "enable <job-id>"
		short = "Enable a scheduled job"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cs, err := openCronStore()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			if err := cs.SetEnabled(args[0], enable); err != nil {
				fmt.Printf("Error updating job: %v\n", err)
				return
			}
			fmt.Printf("Job %q updated.\n", args[0])
		},
	}
}
