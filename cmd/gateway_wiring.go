package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openclaw/openclaw/internal/agent"
	"github.com/openclaw/openclaw/internal/bootstrap"
	"github.com/openclaw/openclaw/internal/bus"
	"github.com/openclaw/openclaw/internal/config"
	"github.com/openclaw/openclaw/internal/providers"
	"github.com/openclaw/openclaw/internal/sandbox"
	"github.com/openclaw/openclaw/internal/skills"
	"github.com/openclaw/openclaw/internal/store"
	"github.com/openclaw/openclaw/internal/tools"
)

// setupSubagents wires the spawn/subagent tool system for the "default"
// agent. Returns nil when no provider can be resolved for subagent runs
// (no subagent tools are registered in that case).
func setupSubagents(providerRegistry *providers.Registry, cfg *config.Config, msgBus *bus.MessageBus, toolsReg *tools.Registry, workspace string, sandboxMgr sandbox.Manager) *tools.SubagentManager {
	agentCfg := cfg.ResolveAgent("default")
	provider, err := providerRegistry.Get(agentCfg.Provider)
	if err != nil {
		slog.Warn("subagents disabled: no provider configured for default agent", "error", err)
		return nil
	}

	subCfg := tools.SubagentConfig{
		MaxConcurrent:       8,
		MaxSpawnDepth:       1,
		MaxChildrenPerAgent: 5,
		ArchiveAfterMinutes: 60,
	}
	if sc := agentCfg.Subagents; sc != nil {
		if sc.MaxConcurrent > 0 {
			subCfg.MaxConcurrent = sc.MaxConcurrent
		}
		if sc.MaxSpawnDepth > 0 {
			subCfg.MaxSpawnDepth = sc.MaxSpawnDepth
		}
		if sc.MaxChildrenPerAgent > 0 {
			subCfg.MaxChildrenPerAgent = sc.MaxChildrenPerAgent
		}
		if sc.ArchiveAfterMinutes > 0 {
			subCfg.ArchiveAfterMinutes = sc.ArchiveAfterMinutes
		}
		subCfg.Model = sc.Model
	}

	createTools := func() *tools.Registry {
		sub := tools.NewRegistry()
		restrict := agentCfg.RestrictToWorkspace
		if sandboxMgr != nil {
			sub.Register(tools.NewSandboxedReadFileTool(workspace, restrict, sandboxMgr))
			sub.Register(tools.NewSandboxedWriteFileTool(workspace, restrict, sandboxMgr))
			sub.Register(tools.NewSandboxedListFilesTool(workspace, restrict, sandboxMgr))
			sub.Register(tools.NewSandboxedEditTool(workspace, restrict, sandboxMgr))
			sub.Register(tools.NewSandboxedExecTool(workspace, restrict, sandboxMgr))
		} else {
			sub.Register(tools.NewReadFileTool(workspace, restrict))
			sub.Register(tools.NewWriteFileTool(workspace, restrict))
			sub.Register(tools.NewListFilesTool(workspace, restrict))
			sub.Register(tools.NewEditTool(workspace, restrict))
			sub.Register(tools.NewExecTool(workspace, restrict))
		}
		sub.Register(tools.NewWebFetchTool(tools.WebFetchConfig{}))
		sub.Register(tools.NewMessageTool())
		return sub
	}

	return tools.NewSubagentManager(provider, subCfg.Model, msgBus, createTools, subCfg)
}

// wireStandaloneExtras resolves the managed-mode-only hooks (per-agent DB
// store, per-user file seeding, dynamic context loading) that standalone
// mode has no backing store for. All three stay nil here: Loop silently
// skips the features that depend on them.
func wireStandaloneExtras(cfg *config.Config, toolsReg *tools.Registry, dataDir, workspace string) (store.AgentStore, agent.EnsureUserFilesFunc, agent.ContextFileLoaderFunc, func()) {
	return nil, nil, nil, func() {}
}

// createAgentLoop builds a Loop for agentID and registers it with router.
func createAgentLoop(
	agentID string,
	cfg *config.Config,
	router *agent.Router,
	providerRegistry *providers.Registry,
	msgBus *bus.MessageBus,
	sessStore store.SessionStore,
	toolsReg *tools.Registry,
	toolPE *tools.PolicyEngine,
	contextFiles []bootstrap.ContextFile,
	skillsLoader *skills.Loader,
	sandboxMgr sandbox.Manager,
	fileAgentStore store.AgentStore,
	ensureUserFiles agent.EnsureUserFilesFunc,
	contextFileLoader agent.ContextFileLoaderFunc,
) error {
	agentCfg := cfg.ResolveAgent(agentID)

	provider, err := providerRegistry.Get(agentCfg.Provider)
	if err != nil {
		return fmt.Errorf("agent %q: %w", agentID, err)
	}

	var sandboxWorkspaceAccess string
	if sandboxMgr != nil && agentCfg.Sandbox != nil {
		sandboxWorkspaceAccess = agentCfg.Sandbox.WorkspaceAccess
	}

	var skillAllowList []string
	var agentToolPolicy *config.ToolPolicySpec
	if spec, ok := cfg.Agents.List[agentID]; ok {
		skillAllowList = spec.Skills
		agentToolPolicy = spec.Tools
	}

	loop := agent.NewLoop(agent.LoopConfig{
		ID:                agentID,
		Provider:          provider,
		Model:             agentCfg.Model,
		ContextWindow:     agentCfg.ContextWindow,
		MaxIterations:     agentCfg.MaxToolIterations,
		Workspace:         config.ExpandHome(agentCfg.Workspace),
		Bus:               msgBus,
		Sessions:          sessStore,
		Tools:             toolsReg,
		ToolPolicy:        toolPE,
		AgentToolPolicy:   agentToolPolicy,
		OwnerIDs:          cfg.Gateway.OwnerIDs,
		SkillsLoader:      skillsLoader,
		SkillAllowList:    skillAllowList,
		HasMemory:         agentCfg.Memory != nil,
		ContextFiles:      contextFiles,
		CompactionCfg:     agentCfg.Compaction,
		ContextPruningCfg: agentCfg.ContextPruning,
		SandboxEnabled:    sandboxMgr != nil,
		SandboxWorkspaceAccess: sandboxWorkspaceAccess,
		EnsureUserFiles:   ensureUserFiles,
		ContextFileLoader: contextFileLoader,
	})

	router.Register(agentID, loop)
	return nil
}

// formatAgentError turns an internal agent-run error into a short,
// user-facing chat message, without leaking internals like stack traces
// or raw provider error bodies.
func formatAgentError(err error) string {
	if err == nil {
		return ""
	}
	if err == context.DeadlineExceeded || err == context.Canceled {
		return "Sorry, that took too long and was cancelled. Please try again."
	}
	return fmt.Sprintf("Sorry, something went wrong: %s", err.Error())
}
