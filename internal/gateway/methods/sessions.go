package methods

import (
	"context"
	"encoding/json"

	"github.com/openclaw/openclaw/internal/gateway"
	"github.com/openclaw/openclaw/internal/store"
	"github.com/openclaw/openclaw/pkg/protocol"
)

// SessionsMethods exposes session listing/reset/delete over RPC.
type SessionsMethods struct {
	sessions store.SessionStore
}

func NewSessionsMethods(sessions store.SessionStore) *SessionsMethods {
	return &SessionsMethods{sessions: sessions}
}

func (m *SessionsMethods) Register(r *gateway.MethodRouter) {
	r.Register(protocol.MethodSessionsList, m.handleList)
	r.Register(protocol.MethodSessionsReset, m.handleReset)
	r.Register(protocol.MethodSessionsDelete, m.handleDelete)
}

type sessionsListParams struct {
	AgentID string `json:"agentId"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
}

func (m *SessionsMethods) handleList(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	var p sessionsListParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, err.Error())
		}
	}
	if p.Limit <= 0 {
		return m.sessions.List(p.AgentID), nil
	}
	return m.sessions.ListPaged(store.SessionListOpts{AgentID: p.AgentID, Limit: p.Limit, Offset: p.Offset}), nil
}

type sessionKeyParams struct {
	Key string `json:"key"`
}

func (m *SessionsMethods) handleReset(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	var p sessionKeyParams
	if err := json.Unmarshal(params, &p); err != nil || p.Key == "" {
		return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, "key is required")
	}
	m.sessions.Reset(p.Key)
	return map[string]interface{}{"ok": true}, nil
}

func (m *SessionsMethods) handleDelete(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	var p sessionKeyParams
	if err := json.Unmarshal(params, &p); err != nil || p.Key == "" {
		return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, "key is required")
	}
	if err := m.sessions.Delete(p.Key); err != nil {
		return nil, gateway.NewMethodError(protocol.ErrNotFound, err.Error())
	}
	return map[string]interface{}{"ok": true}, nil
}
