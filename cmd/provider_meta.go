package cmd

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/openclaw/openclaw/internal/config"
)

// providerInfo describes a built-in provider's environment variable, default
// base URL, and a model hint used to pre-fill onboarding/config.
type providerInfo struct {
	envKey    string
	apiBase   string
	modelHint string
}

// providerMap indexes providerInfo by provider name for the onboarding
// wizard, env auto-detection, and connectivity verification. Kept in sync
// with registerProviders (gateway_providers.go).
var providerMap = map[string]providerInfo{
	"anthropic":  {envKey: "GOCLAW_ANTHROPIC_API_KEY", apiBase: "https://api.anthropic.com", modelHint: "claude-sonnet-4-5-20250929"},
	"openai":     {envKey: "GOCLAW_OPENAI_API_KEY", apiBase: "https://api.openai.com/v1", modelHint: "gpt-4o"},
	"openrouter": {envKey: "GOCLAW_OPENROUTER_API_KEY", apiBase: "https://openrouter.ai/api/v1", modelHint: "anthropic/claude-sonnet-4-5-20250929"},
	"groq":       {envKey: "GOCLAW_GROQ_API_KEY", apiBase: "https://api.groq.com/openai/v1", modelHint: "llama-3.3-70b-versatile"},
	"deepseek":   {envKey: "GOCLAW_DEEPSEEK_API_KEY", apiBase: "https://api.deepseek.com/v1", modelHint: "deepseek-chat"},
	"gemini":     {envKey: "GOCLAW_GEMINI_API_KEY", apiBase: "https://generativelanguage.googleapis.com/v1beta/openai", modelHint: "gemini-2.0-flash"},
	"mistral":    {envKey: "GOCLAW_MISTRAL_API_KEY", apiBase: "https://api.mistral.ai/v1", modelHint: "mistral-large-latest"},
	"xai":        {envKey: "GOCLAW_XAI_API_KEY", apiBase: "https://api.x.ai/v1", modelHint: "grok-3-mini"},
	"minimax":    {envKey: "GOCLAW_MINIMAX_API_KEY", apiBase: "https://api.minimax.io/v1", modelHint: "MiniMax-M2.5"},
	"cohere":     {envKey: "GOCLAW_COHERE_API_KEY", apiBase: "https://api.cohere.ai/compatibility/v1", modelHint: "command-a"},
	"perplexity": {envKey: "GOCLAW_PERPLEXITY_API_KEY", apiBase: "https://api.perplexity.ai", modelHint: "sonar-pro"},
}

// resolveProviderAPIKey returns the configured API key for name, checking
// config.json fields (populated from env by ApplyEnvOverrides already, but
// this is also called before that has necessarily run).
func resolveProviderAPIKey(cfg *config.Config, name string) string {
	switch name {
	case "anthropic":
		return cfg.Providers.Anthropic.APIKey
	case "openai":
		return cfg.Providers.OpenAI.APIKey
	case "openrouter":
		return cfg.Providers.OpenRouter.APIKey
	case "groq":
		return cfg.Providers.Groq.APIKey
	case "deepseek":
		return cfg.Providers.DeepSeek.APIKey
	case "gemini":
		return cfg.Providers.Gemini.APIKey
	case "mistral":
		return cfg.Providers.Mistral.APIKey
	case "xai":
		return cfg.Providers.XAI.APIKey
	case "minimax":
		return cfg.Providers.MiniMax.APIKey
	case "cohere":
		return cfg.Providers.Cohere.APIKey
	case "perplexity":
		return cfg.Providers.Perplexity.APIKey
	default:
		return ""
	}
}

// resolveProviderAPIBase returns the default base URL for a known provider
// name, or "" if name isn't one of the built-ins.
func resolveProviderAPIBase(name string) string {
	if pi, ok := providerMap[name]; ok {
		return pi.apiBase
	}
	return ""
}

// onboardGenerateToken returns a random hex token of n bytes, used for
// gateway bearer tokens and encryption keys generated during onboarding.
func onboardGenerateToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read on a supported platform practically never fails;
		// fall back to a fixed-length zero buffer rather than panicking.
		return hex.EncodeToString(buf)
	}
	return hex.EncodeToString(buf)
}
