package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// AgentLinkData authorizes one agent to delegate work to another, with an
// optional per-link concurrency cap and user allow/deny settings.
type AgentLinkData struct {
	ID            uuid.UUID
	SourceAgentID uuid.UUID
	TargetAgentID uuid.UUID
	MaxConcurrent int
	Settings      json.RawMessage
}

// AgentLinkStore resolves delegation permissions between agents. Optional
// in standalone mode (nil disables the delegate/subagent tool's managed-mode
// permission check; standalone delegation is governed by config instead).
type AgentLinkStore interface {
	GetLinkBetween(ctx context.Context, sourceAgentID, targetAgentID uuid.UUID) (*AgentLinkData, error)
}
