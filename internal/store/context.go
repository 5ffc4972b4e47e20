package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Request-scoped identity is threaded through context so tool handlers and
// store-backed interceptors (context files, delegation, group permissions)
// can scope their reads/writes without every call site taking an explicit
// agent/user parameter. Values are set once in the agent loop's runLoop and
// read by whichever tool or store adapter needs them; all are zero-valued
// (uuid.Nil / "") when absent, which standalone mode always is.
type contextKey int

const (
	agentIDKey contextKey = iota
	userIDKey
	agentTypeKey
	senderIDKey
)

// WithAgentID attaches the managed-mode agent UUID to ctx.
func WithAgentID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, agentIDKey, id)
}

// AgentIDFromContext returns the agent UUID attached to ctx, or uuid.Nil.
func AgentIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(agentIDKey).(uuid.UUID)
	return id
}

// WithUserID attaches the external per-user scoping id to ctx.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext returns the user id attached to ctx, or "".
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithAgentType attaches the agent's type ("open", "predefined", ...) to ctx.
func WithAgentType(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, agentTypeKey, t)
}

// AgentTypeFromContext returns the agent type attached to ctx, or "".
func AgentTypeFromContext(ctx context.Context) string {
	t, _ := ctx.Value(agentTypeKey).(string)
	return t
}

// WithSenderID attaches the original message sender id (e.g. a group
// member's numeric id) to ctx, used by group-file-writer permission checks.
func WithSenderID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, senderIDKey, id)
}

// SenderIDFromContext returns the sender id attached to ctx, or "".
func SenderIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(senderIDKey).(string)
	return id
}

// GenNewID generates a fresh random identifier, used for trace and span ids.
func GenNewID() uuid.UUID {
	return uuid.New()
}

// ValidateUserID rejects empty or overlong external user ids before they
// reach a managed-mode store write.
func ValidateUserID(id string) error {
	if id == "" {
		return fmt.Errorf("user_id is required")
	}
	if len(id) > 256 {
		return fmt.Errorf("user_id too long")
	}
	return nil
}
