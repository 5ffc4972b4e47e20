package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/openclaw/openclaw/internal/config"
)

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List known providers and their default model",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				fmt.Printf("Error loading config: %v\n", err)
				return
			}

			names := make([]string, 0, len(providerMap))
			for name := range providerMap {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Printf("%-12s %-10s %s\n", "PROVIDER", "CONFIGURED", "DEFAULT MODEL")
			for _, name := range names {
				configured := "no"
				if resolveProviderAPIKey(cfg, name) != "" {
					configured = "yes"
				}
				fmt.Printf("%-12s %-10s %s\n", name, configured, providerMap[name].modelHint)
			}
		},
	}
}
