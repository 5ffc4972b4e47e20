package methods

import (
	"context"
	"encoding/json"

	"github.com/openclaw/openclaw/internal/gateway"
	"github.com/openclaw/openclaw/internal/store"
	"github.com/openclaw/openclaw/pkg/protocol"
)

// SkillsMethods exposes the skill catalog over RPC.
type SkillsMethods struct {
	skills store.SkillStore
}

func NewSkillsMethods(skills store.SkillStore) *SkillsMethods {
	return &SkillsMethods{skills: skills}
}

func (m *SkillsMethods) Register(r *gateway.MethodRouter) {
	r.Register(protocol.MethodSkillsList, m.handleList)
}

func (m *SkillsMethods) handleList(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	return map[string]interface{}{"skills": m.skills.List()}, nil
}
