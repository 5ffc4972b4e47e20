package methods

import (
	"context"
	"encoding/json"

	"github.com/openclaw/openclaw/internal/gateway"
	"github.com/openclaw/openclaw/internal/tools"
	"github.com/openclaw/openclaw/pkg/protocol"
)

// ApprovalsMethods lets an operator resolve pending exec approval requests
// (raised by the exec tool's human-in-the-loop gate) over RPC.
type ApprovalsMethods struct {
	mgr *tools.ExecApprovalManager
}

func NewApprovalsMethods(mgr *tools.ExecApprovalManager) *ApprovalsMethods {
	return &ApprovalsMethods{mgr: mgr}
}

func (m *ApprovalsMethods) Register(r *gateway.MethodRouter) {
	r.Register(protocol.MethodApprovalsApprove, m.handleApprove)
	r.Register(protocol.MethodApprovalsDeny, m.handleDeny)
}

type approvalIDParams struct {
	ID string `json:"id"`
}

func (m *ApprovalsMethods) handleApprove(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	return m.resolve(params, tools.ApprovalAllow)
}

func (m *ApprovalsMethods) handleDeny(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	return m.resolve(params, tools.ApprovalDeny)
}

func (m *ApprovalsMethods) resolve(params json.RawMessage, decision tools.ApprovalDecision) (interface{}, error) {
	var p approvalIDParams
	if err := json.Unmarshal(params, &p); err != nil || p.ID == "" {
		return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, "id is required")
	}
	if !m.mgr.Resolve(p.ID, decision) {
		return nil, gateway.NewMethodError(protocol.ErrNotFound, "no pending approval with that id")
	}
	return map[string]interface{}{"ok": true}, nil
}
