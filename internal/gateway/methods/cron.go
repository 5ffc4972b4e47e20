package methods

import (
	"context"
	"encoding/json"

	"github.com/openclaw/openclaw/internal/gateway"
	"github.com/openclaw/openclaw/internal/store"
	"github.com/openclaw/openclaw/pkg/protocol"
)

// CronMethods exposes scheduled-job CRUD and toggling over RPC.
type CronMethods struct {
	cron store.CronStore
}

func NewCronMethods(cron store.CronStore) *CronMethods {
	return &CronMethods{cron: cron}
}

func (m *CronMethods) Register(r *gateway.MethodRouter) {
	r.Register(protocol.MethodCronList, m.handleList)
	r.Register(protocol.MethodCronCreate, m.handleCreate)
	r.Register(protocol.MethodCronUpdate, m.handleUpdate)
	r.Register(protocol.MethodCronDelete, m.handleDelete)
	r.Register(protocol.MethodCronToggle, m.handleToggle)
}

type cronListParams struct {
	AgentID string `json:"agentId"`
}

func (m *CronMethods) handleList(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	var p cronListParams
	if len(params) > 0 {
		json.Unmarshal(params, &p)
	}
	return m.cron.List(p.AgentID), nil
}

func (m *CronMethods) handleCreate(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	var job store.CronJob
	if err := json.Unmarshal(params, &job); err != nil {
		return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, err.Error())
	}
	if err := m.cron.Create(&job); err != nil {
		return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, err.Error())
	}
	return job, nil
}

type cronUpdateParams struct {
	ID      string          `json:"id"`
	Patch   json.RawMessage `json:"patch"`
}

func (m *CronMethods) handleUpdate(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	var p cronUpdateParams
	if err := json.Unmarshal(params, &p); err != nil || p.ID == "" {
		return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, "id is required")
	}
	err := m.cron.Update(p.ID, func(job *store.CronJob) {
		json.Unmarshal(p.Patch, job)
	})
	if err != nil {
		return nil, gateway.NewMethodError(protocol.ErrNotFound, err.Error())
	}
	job, err := m.cron.Get(p.ID)
	if err != nil {
		return nil, gateway.NewMethodError(protocol.ErrNotFound, err.Error())
	}
	return job, nil
}

type cronIDParams struct {
	ID string `json:"id"`
}

func (m *CronMethods) handleDelete(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	var p cronIDParams
	if err := json.Unmarshal(params, &p); err != nil || p.ID == "" {
		return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, "id is required")
	}
	if err := m.cron.Delete(p.ID); err != nil {
		return nil, gateway.NewMethodError(protocol.ErrNotFound, err.Error())
	}
	return map[string]interface{}{"ok": true}, nil
}

type cronToggleParams struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

func (m *CronMethods) handleToggle(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	var p cronToggleParams
	if err := json.Unmarshal(params, &p); err != nil || p.ID == "" {
		return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, "id is required")
	}
	if err := m.cron.SetEnabled(p.ID, p.Enabled); err != nil {
		return nil, gateway.NewMethodError(protocol.ErrNotFound, err.Error())
	}
	return map[string]interface{}{"ok": true}, nil
}
