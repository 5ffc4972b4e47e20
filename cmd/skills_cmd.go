package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openclaw/openclaw/internal/config"
	"github.com/openclaw/openclaw/internal/skills"
)

func openSkillsLoader(cfg *config.Config) *skills.Loader {
	workspace := config.ExpandHome(cfg.Agents.Defaults.Workspace)
	globalSkillsDir := os.Getenv("OPENCLAW_SKILLS_DIR")
	if globalSkillsDir == "" {
		globalSkillsDir = filepath.Join(config.ExpandHome("~/.openclaw"), "skills")
	}
	return skills.NewLoader(workspace, globalSkillsDir, "")
}

func skillsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List and reload SKILL.md-based agent skills",
	}
	cmd.AddCommand(skillsListCmd())
	cmd.AddCommand(skillsReloadCmd())
	return cmd
}

func skillsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered skills",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				fmt.Printf("Error loading config: %v\n", err)
				return
			}
			loader := openSkillsLoader(cfg)
			skillList := loader.ListSkills()
			if len(skillList) == 0 {
				fmt.Println("No skills found.")
				return
			}
			fmt.Printf("%-24s %s\n", "NAME", "DESCRIPTION")
			for _, s := range skillList {
				fmt.Printf("%-24s %s\n", s.Name, s.Description)
			}
		},
	}
}

func skillsReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Re-scan skill directories from disk",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				fmt.Printf("Error loading config: %v\n", err)
				return
			}
			loader := openSkillsLoader(cfg)
			if err := loader.Reload(); err != nil {
				fmt.Printf("Error reloading skills: %v\n", err)
				return
			}
			fmt.Printf("Reloaded %d skills.\n", len(loader.ListSkills()))
		},
	}
}
