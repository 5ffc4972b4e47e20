package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// CheckDockerAvailable reports whether the docker CLI is on PATH and the
// daemon answers, without shelling out to a full SDK the corpus never
// vendors for this case — `docker info` is the CLI's own health probe.
func CheckDockerAvailable(ctx context.Context) error {
	if _, err := exec.LookPath("docker"); err != nil {
		return fmt.Errorf("docker binary not found: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "docker", "info", "--format", "{{.ServerVersion}}")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("docker daemon unreachable: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// dockerSandbox is one running container, exec'd into via `docker exec`.
type dockerSandbox struct {
	containerID string
}

func (s *dockerSandbox) ID() string { return s.containerID }

func (s *dockerSandbox) Exec(ctx context.Context, argv []string, cwd string) (ExecResult, error) {
	args := []string{"exec", "-w", cwd, s.containerID}
	args = append(args, argv...)
	cmd := exec.CommandContext(ctx, "docker", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	exitCode := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		return ExecResult{}, err
	}

	return ExecResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: exitCode}, nil
}

// DockerManager provisions and reuses docker containers keyed by
// Config.Scope, pruning idle/aged containers on an interval.
type DockerManager struct {
	cfg Config

	mu         sync.Mutex
	containers map[string]*trackedContainer

	stopCh chan struct{}
	once   sync.Once
}

type trackedContainer struct {
	id         string
	lastUsedAt time.Time
	createdAt  time.Time
}

// NewDockerManager builds a Manager backed by the docker CLI. Callers should
// have already verified CheckDockerAvailable.
func NewDockerManager(cfg Config) Manager {
	m := &DockerManager{
		cfg:        cfg,
		containers: make(map[string]*trackedContainer),
		stopCh:     make(chan struct{}),
	}
	go m.pruneLoop()
	return m
}

func (m *DockerManager) scopeKey(sandboxKey string) string {
	switch m.cfg.Scope {
	case ScopeShared:
		return "shared"
	case ScopeAgent:
		if idx := strings.Index(sandboxKey, ":"); idx >= 0 {
			return "agent:" + sandboxKey[:idx]
		}
		return "agent:" + sandboxKey
	default: // ScopeSession
		return sandboxKey
	}
}

func (m *DockerManager) Get(ctx context.Context, sandboxKey, workspace string) (Sandbox, error) {
	if m.cfg.Mode == ModeOff {
		return nil, ErrSandboxDisabled
	}

	key := m.scopeKey(sandboxKey)

	m.mu.Lock()
	if tc, ok := m.containers[key]; ok {
		tc.lastUsedAt = time.Now()
		m.mu.Unlock()
		return &dockerSandbox{containerID: tc.id}, nil
	}
	m.mu.Unlock()

	id, err := m.createContainer(ctx, key, workspace)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.containers[key] = &trackedContainer{id: id, lastUsedAt: time.Now(), createdAt: time.Now()}
	m.mu.Unlock()

	if m.cfg.SetupCommand != "" {
		sb := &dockerSandbox{containerID: id}
		if _, err := sb.Exec(ctx, []string{"sh", "-c", m.cfg.SetupCommand}, "/workspace"); err != nil {
			slog.Warn("sandbox: setup command failed", "key", key, "error", err)
		}
	}

	return &dockerSandbox{containerID: id}, nil
}

func (m *DockerManager) createContainer(ctx context.Context, key, workspace string) (string, error) {
	args := []string{"run", "-d",
		"--name", containerName(key),
		"--cap-drop", "ALL",
		"--security-opt", "no-new-privileges",
		"--pids-limit", "256",
		"--memory", fmt.Sprintf("%dm", m.cfg.MemoryMB),
		"--cpus", fmt.Sprintf("%.2f", m.cfg.CPUs),
	}
	if m.cfg.TmpfsSizeMB > 0 {
		args = append(args, "--tmpfs", fmt.Sprintf("/tmp:size=%dm", m.cfg.TmpfsSizeMB))
	}
	if m.cfg.ReadOnlyRoot {
		args = append(args, "--read-only")
	}
	if !m.cfg.NetworkEnabled {
		args = append(args, "--network", "none")
	}
	if m.cfg.User != "" {
		args = append(args, "--user", m.cfg.User)
	}
	for k, v := range m.cfg.Env {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, v))
	}
	if m.cfg.WorkspaceAccess != AccessNone && workspace != "" {
		mount := fmt.Sprintf("%s:/workspace", workspace)
		if m.cfg.WorkspaceAccess == AccessRO {
			mount += ":ro"
		}
		args = append(args, "-v", mount)
	}
	args = append(args, m.cfg.Image, "sleep", "infinity")

	cmd := exec.CommandContext(ctx, "docker", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("docker run: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

func containerName(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, key)
	return "openclaw-sbx-" + safe
}

func (m *DockerManager) ReleaseAll(ctx context.Context) error {
	m.mu.Lock()
	ids := make([]string, 0, len(m.containers))
	for _, tc := range m.containers {
		ids = append(ids, tc.id)
	}
	m.containers = make(map[string]*trackedContainer)
	m.mu.Unlock()

	var lastErr error
	for _, id := range ids {
		cmd := exec.CommandContext(ctx, "docker", "rm", "-f", id)
		if out, err := cmd.CombinedOutput(); err != nil {
			slog.Warn("sandbox: failed to remove container", "id", id, "error", err, "output", string(out))
			lastErr = err
		}
	}
	return lastErr
}

func (m *DockerManager) Stop() {
	m.once.Do(func() { close(m.stopCh) })
}

func (m *DockerManager) pruneLoop() {
	interval := time.Duration(m.cfg.PruneIntervalMin) * time.Minute
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.pruneOnce()
		}
	}
}

func (m *DockerManager) pruneOnce() {
	idleCutoff := time.Now().Add(-time.Duration(m.cfg.IdleHours) * time.Hour)
	ageCutoff := time.Now().Add(-time.Duration(m.cfg.MaxAgeDays) * 24 * time.Hour)

	m.mu.Lock()
	var stale []string
	for key, tc := range m.containers {
		if tc.lastUsedAt.Before(idleCutoff) || tc.createdAt.Before(ageCutoff) {
			stale = append(stale, tc.id)
			delete(m.containers, key)
		}
	}
	m.mu.Unlock()

	for _, id := range stale {
		cmd := exec.Command("docker", "rm", "-f", id)
		if out, err := cmd.CombinedOutput(); err != nil {
			slog.Warn("sandbox: prune failed", "id", id, "error", err, "output", string(out))
		} else {
			slog.Info("sandbox: pruned idle/aged container", "id", id)
		}
	}
}
