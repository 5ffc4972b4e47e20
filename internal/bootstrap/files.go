package bootstrap

import (
	"os"
	"path/filepath"
)

// Workspace-root context file names. Seeded from templates/ on first run
// (EnsureWorkspaceFiles) and re-read on every agent turn so edits an LLM
// makes (e.g. appending to SOUL.md) take effect immediately.
const (
	AgentsFile    = "AGENTS.md"
	SoulFile      = "SOUL.md"
	ToolsFile     = "TOOLS.md"
	IdentityFile  = "IDENTITY.md"
	UserFile      = "USER.md"
	HeartbeatFile = "HEARTBEAT.md"
	BootstrapFile = "BOOTSTRAP.md"
)

// DefaultMaxCharsPerFile bounds one context file's contribution to the
// system prompt before DefaultTotalMaxChars is applied across all of them.
const DefaultMaxCharsPerFile = 20000

// DefaultTotalMaxChars bounds the combined size of all context files
// injected into the system prompt.
const DefaultTotalMaxChars = 24000

// ContextFile is one workspace-root file (AGENTS.md, SOUL.md, ...) injected
// into the agent's system prompt.
type ContextFile struct {
	Path    string
	Content string
}

// TruncateConfig bounds how much of each context file, and of all context
// files combined, gets sent to the LLM.
type TruncateConfig struct {
	MaxCharsPerFile int
	TotalMaxChars   int
}

// LoadWorkspaceFiles reads the standard context files from a workspace
// root, skipping any that don't exist. Order matches templateFiles plus
// BOOTSTRAP.md last, so later truncation drops bootstrap content first.
func LoadWorkspaceFiles(workspaceDir string) []ContextFile {
	names := append(append([]string{}, templateFiles...), BootstrapFile)
	var out []ContextFile
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(workspaceDir, name))
		if err != nil {
			continue
		}
		out = append(out, ContextFile{Path: name, Content: string(data)})
	}
	return out
}

// BuildContextFiles truncates each file to cfg.MaxCharsPerFile, then drops
// or trims trailing files until the combined size fits cfg.TotalMaxChars.
func BuildContextFiles(raw []ContextFile, cfg TruncateConfig) []ContextFile {
	if cfg.MaxCharsPerFile <= 0 {
		cfg.MaxCharsPerFile = DefaultMaxCharsPerFile
	}
	if cfg.TotalMaxChars <= 0 {
		cfg.TotalMaxChars = DefaultTotalMaxChars
	}

	out := make([]ContextFile, 0, len(raw))
	remaining := cfg.TotalMaxChars
	for _, f := range raw {
		if remaining <= 0 {
			break
		}
		content := f.Content
		if len(content) > cfg.MaxCharsPerFile {
			content = content[:cfg.MaxCharsPerFile]
		}
		if len(content) > remaining {
			content = content[:remaining]
		}
		out = append(out, ContextFile{Path: f.Path, Content: content})
		remaining -= len(content)
	}
	return out
}
