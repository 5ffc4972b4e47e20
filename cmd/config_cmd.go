package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openclaw/openclaw/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the active gateway configuration",
	}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configValidateCmd())
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved config as JSON (secrets redacted)",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				fmt.Printf("Error loading config: %v\n", err)
				return
			}
			cfg.Providers = config.ProvidersConfig{} // drop secrets before printing
			cfg.Gateway.Token = ""
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				fmt.Printf("Error encoding config: %v\n", err)
				return
			}
			fmt.Println(string(data))
		},
	}
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the config file and report errors",
		Run: func(cmd *cobra.Command, args []string) {
			path := resolveConfigPath()
			if _, err := os.Stat(path); err != nil {
				fmt.Printf("Config file not found: %s\n", path)
				os.Exit(1)
			}
			cfg, err := config.Load(path)
			if err != nil {
				fmt.Printf("Config invalid: %v\n", err)
				os.Exit(1)
			}
			if !cfg.HasAnyProvider() {
				fmt.Println("Warning: no provider API key configured.")
			}
			fmt.Printf("%s is valid.\n", path)
		},
	}
}
