package agent

import (
	"github.com/openclaw/openclaw/internal/config"
	"github.com/openclaw/openclaw/internal/providers"
)

const (
	defaultKeepLastAssistants   = 3
	defaultSoftTrimRatio        = 0.3
	defaultHardClearRatio       = 0.5
	defaultMinPrunableToolChars = 50000
	defaultSoftTrimMaxChars     = 4000
	defaultSoftTrimHeadChars    = 1500
	defaultSoftTrimTailChars    = 1500
	defaultHardClearPlaceholder = "[Old tool result content cleared]"
)

// pruneContextMessages trims or clears old tool-result content once the
// running history approaches the model's context window, protecting the
// most recent assistant turns so the model never loses its immediate
// working context. Mode "off" (the default) is a no-op.
func pruneContextMessages(messages []providers.Message, contextWindow int, cfg *config.ContextPruningConfig) []providers.Message {
	if cfg == nil || cfg.Mode != "cache-ttl" || contextWindow <= 0 {
		return messages
	}

	totalToolChars := 0
	for _, m := range messages {
		if m.Role == "tool" {
			totalToolChars += len(m.Content)
		}
	}
	minPrunable := cfg.MinPrunableToolChars
	if minPrunable <= 0 {
		minPrunable = defaultMinPrunableToolChars
	}
	if totalToolChars < minPrunable {
		return messages
	}

	estimate := EstimateTokens(messages)
	softTrimRatio := cfg.SoftTrimRatio
	if softTrimRatio <= 0 {
		softTrimRatio = defaultSoftTrimRatio
	}
	hardClearRatio := cfg.HardClearRatio
	if hardClearRatio <= 0 {
		hardClearRatio = defaultHardClearRatio
	}
	softTrigger := int(float64(contextWindow) * softTrimRatio)
	hardTrigger := int(float64(contextWindow) * hardClearRatio)
	if estimate < softTrigger {
		return messages
	}

	keepLastAssistants := cfg.KeepLastAssistants
	if keepLastAssistants <= 0 {
		keepLastAssistants = defaultKeepLastAssistants
	}
	protectedFrom := protectedToolBoundary(messages, keepLastAssistants)

	hardClearEnabled := cfg.HardClear == nil || cfg.HardClear.Enabled == nil || *cfg.HardClear.Enabled
	hardClear := estimate >= hardTrigger && hardClearEnabled

	out := make([]providers.Message, len(messages))
	copy(out, messages)
	for i := 0; i < protectedFrom; i++ {
		if out[i].Role != "tool" || out[i].Content == "" {
			continue
		}
		if hardClear {
			out[i].Content = hardClearPlaceholder(cfg)
			continue
		}
		out[i].Content = softTrimContent(out[i].Content, cfg)
	}
	return out
}

// protectedToolBoundary returns the index of the first message belonging to
// the last N assistant turns (and everything after it); messages before
// that index are eligible for pruning.
func protectedToolBoundary(messages []providers.Message, keepLastAssistants int) int {
	assistantsSeen := 0
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "assistant" {
			assistantsSeen++
			if assistantsSeen >= keepLastAssistants {
				return i
			}
		}
	}
	return 0
}

func softTrimContent(content string, cfg *config.ContextPruningConfig) string {
	maxChars, headChars, tailChars := defaultSoftTrimMaxChars, defaultSoftTrimHeadChars, defaultSoftTrimTailChars
	if cfg.SoftTrim != nil {
		if cfg.SoftTrim.MaxChars > 0 {
			maxChars = cfg.SoftTrim.MaxChars
		}
		if cfg.SoftTrim.HeadChars > 0 {
			headChars = cfg.SoftTrim.HeadChars
		}
		if cfg.SoftTrim.TailChars > 0 {
			tailChars = cfg.SoftTrim.TailChars
		}
	}
	if len(content) <= maxChars {
		return content
	}
	head := content
	if headChars < len(head) {
		head = head[:headChars]
	}
	tail := ""
	if tailChars < len(content) {
		tail = content[len(content)-tailChars:]
	}
	return head + "\n...[trimmed]...\n" + tail
}

func hardClearPlaceholder(cfg *config.ContextPruningConfig) string {
	if cfg.HardClear != nil && cfg.HardClear.Placeholder != "" {
		return cfg.HardClear.Placeholder
	}
	return defaultHardClearPlaceholder
}
