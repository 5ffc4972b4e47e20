package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/openclaw/openclaw/internal/config"
)

func onboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Interactively configure a new gateway",
		Run: func(cmd *cobra.Command, args []string) {
			runOnboard()
		},
	}
}

// runOnboard walks a new operator through picking a provider, model, and
// workspace, then writes config.json. Falls back to auto-onboard if stdin
// isn't a terminal huh can drive (e.g. piped input in CI).
func runOnboard() {
	cfgPath := resolveConfigPath()
	cfg := config.Default()
	cfg.ApplyEnvOverrides()

	names := make([]string, 0, len(providerMap))
	for name := range providerMap {
		names = append(names, name)
	}
	sort.Strings(names)

	var provider, apiKey, workspace string
	provider = cfg.Agents.Defaults.Provider

	providerOpts := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		providerOpts = append(providerOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("AI provider").
				Options(providerOpts...).
				Value(&provider),
			huh.NewInput().
				Title("API key").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewInput().
				Title("Workspace directory").
				Placeholder(cfg.Agents.Defaults.Workspace).
				Value(&workspace),
		),
	)

	if err := form.Run(); err != nil {
		fmt.Printf("Onboarding wizard unavailable (%v); falling back to auto-onboard.\n", err)
		if canAutoOnboard() {
			if !runAutoOnboard(cfgPath) {
				os.Exit(1)
			}
			return
		}
		fmt.Println("No provider API key found in environment either. Set one (e.g. GOCLAW_ANTHROPIC_API_KEY) and re-run.")
		os.Exit(1)
	}

	if provider == "" || apiKey == "" {
		fmt.Println("Onboarding cancelled: provider and API key are required.")
		os.Exit(1)
	}

	switch provider {
	case "anthropic":
		cfg.Providers.Anthropic.APIKey = apiKey
	case "openai":
		cfg.Providers.OpenAI.APIKey = apiKey
	case "openrouter":
		cfg.Providers.OpenRouter.APIKey = apiKey
	case "groq":
		cfg.Providers.Groq.APIKey = apiKey
	case "deepseek":
		cfg.Providers.DeepSeek.APIKey = apiKey
	case "gemini":
		cfg.Providers.Gemini.APIKey = apiKey
	case "mistral":
		cfg.Providers.Mistral.APIKey = apiKey
	case "xai":
		cfg.Providers.XAI.APIKey = apiKey
	case "minimax":
		cfg.Providers.MiniMax.APIKey = apiKey
	case "cohere":
		cfg.Providers.Cohere.APIKey = apiKey
	case "perplexity":
		cfg.Providers.Perplexity.APIKey = apiKey
	}
	cfg.Agents.Defaults.Provider = provider
	if pi, ok := providerMap[provider]; ok {
		cfg.Agents.Defaults.Model = pi.modelHint
	}
	if workspace != "" {
		cfg.Agents.Defaults.Workspace = workspace
	}

	fmt.Println("Verifying provider connectivity...")
	if verr := verifyProviderConnectivity(cfg, provider); verr != nil && verr.fatal {
		fmt.Printf("Provider verification FAILED: %s\n", verr.message)
		os.Exit(1)
	}

	if cfg.Gateway.Token == "" {
		cfg.Gateway.Token = onboardGenerateToken(16)
	}

	if err := saveCleanConfig(cfgPath, cfg); err != nil {
		fmt.Printf("Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Configuration saved to %s. Run ./openclaw to start the gateway.\n", cfgPath)
}
