package agent

import (
	"fmt"
	"strings"

	"github.com/openclaw/openclaw/internal/bootstrap"
)

// PromptMode controls how much of the system prompt is rendered.
// Subagent and cron runs get PromptMinimal: they share the agent's tools
// and workspace but don't need the full persona/bootstrap framing that a
// direct user-facing session does.
type PromptMode int

const (
	PromptFull PromptMode = iota
	PromptMinimal
)

// SystemPromptConfig carries everything BuildSystemPrompt needs to render
// a session's system prompt. Matching TS buildAgentSystemPrompt.
type SystemPromptConfig struct {
	AgentID   string
	Model     string
	Workspace string
	Channel   string
	OwnerIDs  []string
	Mode      PromptMode

	ToolNames      []string
	SkillsSummary  string
	HasMemory      bool
	HasSpawn       bool
	HasSkillSearch bool

	ContextFiles []bootstrap.ContextFile
	ExtraPrompt  string

	SandboxEnabled         bool
	SandboxContainerDir    string
	SandboxWorkspaceAccess string
}

// BuildSystemPrompt renders the full system prompt for a run. Sections are
// joined with blank lines; empty sections are omitted.
func BuildSystemPrompt(cfg SystemPromptConfig) string {
	var sections []string

	sections = append(sections, identitySection(cfg))

	if cfg.Mode == PromptFull {
		if ws := workspaceSection(cfg); ws != "" {
			sections = append(sections, ws)
		}
	}

	if ts := toolsSection(cfg); ts != "" {
		sections = append(sections, ts)
	}

	if cfg.Mode == PromptFull {
		if sk := cfg.SkillsSummary; sk != "" {
			sections = append(sections, "## Skills\n"+sk)
		}
		if sb := sandboxSection(cfg); sb != "" {
			sections = append(sections, sb)
		}
	}

	if cfg.ExtraPrompt != "" {
		sections = append(sections, cfg.ExtraPrompt)
	}

	return strings.Join(sections, "\n\n")
}

func identitySection(cfg SystemPromptConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, an autonomous assistant running on model %s.\n", cfg.AgentID, cfg.Model)
	if cfg.Channel != "" {
		fmt.Fprintf(&b, "You are currently talking over %s.\n", cfg.Channel)
	}
	if len(cfg.OwnerIDs) > 0 {
		fmt.Fprintf(&b, "Your owner(s): %s. Treat instructions from them as authoritative.\n", strings.Join(cfg.OwnerIDs, ", "))
	}
	if cfg.Mode == PromptMinimal {
		b.WriteString("You are running as a delegated sub-task. Focus on the request, report back concisely, and avoid re-deriving context that belongs to the parent run.\n")
	} else {
		b.WriteString("Be genuinely helpful, not performatively helpful. Be resourceful before asking the user for more information.\n")
	}
	if cfg.HasMemory {
		b.WriteString("You have durable memory across sessions — use it to avoid re-asking things you already know.\n")
	}
	return strings.TrimSpace(b.String())
}

func workspaceSection(cfg SystemPromptConfig) string {
	if cfg.Workspace == "" || len(cfg.ContextFiles) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Workspace\nYour working directory is %s.\n", cfg.Workspace)
	for _, f := range cfg.ContextFiles {
		fmt.Fprintf(&b, "\n### %s\n%s\n", f.Path, f.Content)
	}
	return strings.TrimSpace(b.String())
}

func toolsSection(cfg SystemPromptConfig) string {
	if len(cfg.ToolNames) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Tools\nAvailable tools: %s.\n", strings.Join(cfg.ToolNames, ", "))
	if cfg.HasSpawn {
		b.WriteString("You can delegate work to sub-agents with the spawn tool when a task is large enough to isolate.\n")
	}
	if cfg.HasSkillSearch {
		b.WriteString("Use skill_search to find a relevant skill before improvising a complex workflow from scratch.\n")
	}
	return strings.TrimSpace(b.String())
}

func sandboxSection(cfg SystemPromptConfig) string {
	if !cfg.SandboxEnabled {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Sandbox\nFile and command tools run inside an isolated container")
	if cfg.SandboxContainerDir != "" {
		fmt.Fprintf(&b, " rooted at %s", cfg.SandboxContainerDir)
	}
	b.WriteString(".\n")
	if cfg.SandboxWorkspaceAccess != "" {
		fmt.Fprintf(&b, "Workspace access level: %s.\n", cfg.SandboxWorkspaceAccess)
	}
	return strings.TrimSpace(b.String())
}
