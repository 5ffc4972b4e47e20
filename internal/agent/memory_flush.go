package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/openclaw/openclaw/internal/config"
	"github.com/openclaw/openclaw/internal/providers"
)

const defaultMemoryFlushSoftThresholdTokens = 4000

// memoryFlushSettings is the resolved, defaulted form of config.MemoryFlushConfig.
type memoryFlushSettings struct {
	enabled             bool
	softThresholdTokens int
	prompt              string
	systemPrompt        string
}

// ResolveMemoryFlushSettings applies defaults on top of the configured
// compaction's memory-flush block. A nil compaction config yields the
// defaults (flush enabled, 4000-token soft threshold).
func ResolveMemoryFlushSettings(cfg *config.CompactionConfig) memoryFlushSettings {
	settings := memoryFlushSettings{
		enabled:             true,
		softThresholdTokens: defaultMemoryFlushSoftThresholdTokens,
	}
	if cfg == nil || cfg.MemoryFlush == nil {
		return settings
	}
	mf := cfg.MemoryFlush
	if mf.Enabled != nil {
		settings.enabled = *mf.Enabled
	}
	if mf.SoftThresholdTokens > 0 {
		settings.softThresholdTokens = mf.SoftThresholdTokens
	}
	settings.prompt = mf.Prompt
	settings.systemPrompt = mf.SystemPrompt
	return settings
}

// shouldRunMemoryFlush decides whether a flush turn should run before
// compaction kicks in: once within softThresholdTokens of the compaction
// threshold, and only once per compaction cycle (tracked via
// MemoryFlushCompactionCount on the session).
func (l *Loop) shouldRunMemoryFlush(sessionKey string, tokenEstimate int, settings memoryFlushSettings) bool {
	if !settings.enabled || l.sessions == nil {
		return false
	}
	historyShare := 0.75
	if l.compactionCfg != nil && l.compactionCfg.MaxHistoryShare > 0 {
		historyShare = l.compactionCfg.MaxHistoryShare
	}
	compactionThreshold := int(float64(l.contextWindow) * historyShare)
	if tokenEstimate < compactionThreshold-settings.softThresholdTokens {
		return false
	}
	compactionCount := l.sessions.GetCompactionCount(sessionKey)
	return l.sessions.GetMemoryFlushCompactionCount(sessionKey) < compactionCount+1
}

// runMemoryFlush asks the model to write down anything worth remembering
// before the oldest history gets summarized away.
func (l *Loop) runMemoryFlush(ctx context.Context, sessionKey string, settings memoryFlushSettings) {
	systemPrompt := settings.systemPrompt
	if systemPrompt == "" {
		systemPrompt = "You are about to lose access to older parts of this conversation. " +
			"If there's anything worth remembering long-term, write it down now using your memory tools. " +
			"If there's nothing worth keeping, just acknowledge briefly."
	}
	prompt := settings.prompt
	if prompt == "" {
		prompt = "Your context is about to be compacted. Save anything important to memory now."
	}

	fctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := l.provider.Chat(fctx, providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Model:   l.model,
		Options: map[string]interface{}{"max_tokens": 512, "temperature": 0.2},
	})
	if err != nil {
		slog.Warn("memory flush failed", "session", sessionKey, "error", err)
		return
	}
	l.sessions.SetMemoryFlushDone(sessionKey)
}
