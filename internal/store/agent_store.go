package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// AgentData is the managed-mode record for one agent: standalone mode never
// populates this store, but channels and tools that accept an optional
// AgentStore (group file writers, delegation) stay able to resolve an
// agent's UUID and per-agent config when one is configured.
type AgentData struct {
	ID          uuid.UUID
	Key         string
	Name        string
	Type        string // "open" or "predefined"
	OtherConfig json.RawMessage
}

// AgentContextFileData is one agent-level context file (SOUL.md, AGENTS.md, ...).
type AgentContextFileData struct {
	AgentID  uuid.UUID
	FileName string
	Content  string
}

// UserContextFileData is the per-user override of an agent-level context file.
type UserContextFileData struct {
	AgentID  uuid.UUID
	UserID   string
	FileName string
	Content  string
}

// GroupFileWriter is a user allowlisted to edit protected context files
// (SOUL.md, AGENTS.md, ...) from within a group chat.
type GroupFileWriter struct {
	UserID      string
	Username    *string
	DisplayName *string
}

// AgentStore resolves agents by id/key and stores their context files and
// group-file-writer allowlists. Optional in standalone mode (nil disables
// the features that depend on it: group file writer commands, delegation,
// per-user context file overrides).
type AgentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AgentData, error)
	GetByKey(ctx context.Context, key string) (*AgentData, error)

	GetAgentContextFiles(ctx context.Context, agentID uuid.UUID) ([]AgentContextFileData, error)
	SetAgentContextFile(ctx context.Context, agentID uuid.UUID, fileName, content string) error

	GetUserContextFiles(ctx context.Context, agentID uuid.UUID, userID string) ([]UserContextFileData, error)
	SetUserContextFile(ctx context.Context, agentID uuid.UUID, userID, fileName, content string) error
	DeleteUserContextFile(ctx context.Context, agentID uuid.UUID, userID, fileName string) error

	IsGroupFileWriter(ctx context.Context, agentID uuid.UUID, groupID, numericUserID string) (bool, error)
	AddGroupFileWriter(ctx context.Context, agentID uuid.UUID, groupID, userID, firstName, username string) error
	RemoveGroupFileWriter(ctx context.Context, agentID uuid.UUID, groupID, userID string) error
	ListGroupFileWriters(ctx context.Context, agentID uuid.UUID, groupID string) ([]GroupFileWriter, error)
}
