// Package sandbox routes tool execution (exec, file read/write/list/edit)
// into per-session Docker containers instead of the host filesystem. It
// backs the "sandbox" config block under agents.defaults: off by default,
// opt-in per agent.
package sandbox

import (
	"context"
	"errors"
)

// ErrSandboxDisabled is returned by Manager.Get when the sandbox is
// configured off; callers fall back to host execution.
var ErrSandboxDisabled = errors.New("sandbox: disabled")

// Mode controls which runs are routed through the sandbox.
type Mode string

const (
	ModeOff     Mode = "off"      // never sandbox
	ModeNonMain Mode = "non-main" // sandbox subagents/cron/delegations, not the main session
	ModeAll     Mode = "all"      // sandbox every run
)

// AccessLevel controls the container's access to the shared workspace mount.
type AccessLevel string

const (
	AccessNone AccessLevel = "none"
	AccessRO   AccessLevel = "ro"
	AccessRW   AccessLevel = "rw"
)

// Scope controls how containers are keyed and reused.
type Scope string

const (
	ScopeSession Scope = "session" // one container per session key
	ScopeAgent   Scope = "agent"   // one container per agent, shared across its sessions
	ScopeShared  Scope = "shared"  // one container for the whole gateway
)

// Config is the resolved sandbox configuration for one agent (see
// config.SandboxConfig.ToSandboxConfig).
type Config struct {
	Mode            Mode
	Image           string
	WorkspaceAccess AccessLevel
	Scope           Scope
	MemoryMB        int
	CPUs            float64
	TimeoutSec      int
	NetworkEnabled  bool
	ReadOnlyRoot    bool
	SetupCommand    string
	Env             map[string]string

	User           string
	TmpfsSizeMB    int
	MaxOutputBytes int

	IdleHours        int
	MaxAgeDays       int
	PruneIntervalMin int
}

// DefaultConfig returns the sandbox defaults applied before a config.SandboxConfig override.
func DefaultConfig() Config {
	return Config{
		Mode:            ModeOff,
		Image:           "openclaw-sandbox:bookworm-slim",
		WorkspaceAccess: AccessRW,
		Scope:           ScopeSession,
		MemoryMB:        512,
		CPUs:            1.0,
		TimeoutSec:      300,
		NetworkEnabled:  false,
		ReadOnlyRoot:    true,
		MaxOutputBytes:  1 << 20,
		IdleHours:       24,
		MaxAgeDays:      7,
		PruneIntervalMin: 5,
	}
}

// ExecResult is the outcome of running one command inside a sandbox.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Sandbox is one live container bound to a sandbox key (session, agent, or
// the shared scope, per Config.Scope).
type Sandbox interface {
	// ID returns the container id, used by FsBridge for filesystem ops.
	ID() string
	// Exec runs argv inside the container, rooted at cwd.
	Exec(ctx context.Context, argv []string, cwd string) (ExecResult, error)
}

// Manager resolves a sandbox key to a live (and already-provisioned)
// container, creating it on first use and reusing it per Config.Scope.
type Manager interface {
	// Get returns the sandbox for key, creating it (mounting workspace read/write
	// per Config.WorkspaceAccess) if it doesn't exist yet. Returns
	// ErrSandboxDisabled if the manager's mode is ModeOff.
	Get(ctx context.Context, sandboxKey, workspace string) (Sandbox, error)
	// ReleaseAll stops and removes every tracked container (graceful shutdown).
	ReleaseAll(ctx context.Context) error
	// Stop halts the manager's background idle/age pruning loop.
	Stop()
}
