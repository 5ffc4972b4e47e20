package store

import (
	"context"

	"github.com/google/uuid"
)

// TeamData groups agents working a shared set of tasks, enabling
// /tasks-style commands and cross-agent handoff routing.
type TeamData struct {
	ID   uuid.UUID
	Name string
}

// TeamMemberData is one agent's membership in a team.
type TeamMemberData struct {
	TeamID  uuid.UUID
	AgentID uuid.UUID
	Role    string
}

// HandoffRoute overrides which agent an inbound message on channel/chatID
// is routed to, set when a team hands a conversation off between agents.
type HandoffRoute struct {
	Channel    string
	ChatID     string
	ToAgentKey string
}

// TeamStore backs team task tracking and handoff routing. Optional in
// standalone mode (nil disables /tasks commands and handoff routing;
// messages then always route by the configured static agent bindings).
type TeamStore interface {
	GetTeamForAgent(ctx context.Context, agentID uuid.UUID) (*TeamData, error)
	GetHandoffRoute(ctx context.Context, channel, chatID string) (*HandoffRoute, error)
}
