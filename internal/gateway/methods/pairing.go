package methods

import (
	"context"
	"encoding/json"

	"github.com/openclaw/openclaw/internal/gateway"
	"github.com/openclaw/openclaw/internal/store"
	"github.com/openclaw/openclaw/pkg/protocol"
)

// OnApproveFunc is invoked after a pairing code is approved, so the caller
// can notify the now-paired chat over its originating channel.
type OnApproveFunc func(ctx context.Context, channel, chatID string)

// PairingMethods exposes device pairing request/approve/list/revoke over RPC.
type PairingMethods struct {
	pairing   store.PairingStore
	onApprove OnApproveFunc
}

func NewPairingMethods(pairing store.PairingStore) *PairingMethods {
	return &PairingMethods{pairing: pairing}
}

// SetOnApprove registers a callback fired synchronously after a successful
// device.pair.approve. Safe to call before or after Register.
func (m *PairingMethods) SetOnApprove(f OnApproveFunc) {
	m.onApprove = f
}

func (m *PairingMethods) Register(r *gateway.MethodRouter) {
	r.Register(protocol.MethodPairingRequest, m.handleRequest)
	r.Register(protocol.MethodPairingApprove, m.handleApprove)
	r.Register(protocol.MethodPairingList, m.handleList)
	r.Register(protocol.MethodPairingRevoke, m.handleRevoke)
}

type pairingRequestParams struct {
	SenderID string `json:"senderId"`
	Channel  string `json:"channel"`
	ChatID   string `json:"chatId"`
	Scope    string `json:"scope"`
}

func (m *PairingMethods) handleRequest(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	var p pairingRequestParams
	if err := json.Unmarshal(params, &p); err != nil || p.SenderID == "" || p.Channel == "" {
		return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, "senderId and channel are required")
	}
	code, err := m.pairing.RequestPairing(p.SenderID, p.Channel, p.ChatID, p.Scope)
	if err != nil {
		return nil, gateway.NewMethodError(protocol.ErrInternal, err.Error())
	}
	return map[string]interface{}{"code": code}, nil
}

type pairingApproveParams struct {
	Code string `json:"code"`
}

func (m *PairingMethods) handleApprove(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	var p pairingApproveParams
	if err := json.Unmarshal(params, &p); err != nil || p.Code == "" {
		return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, "code is required")
	}
	req, err := m.pairing.Approve(p.Code)
	if err != nil {
		return nil, gateway.NewMethodError(protocol.ErrNotFound, err.Error())
	}
	if m.onApprove != nil {
		m.onApprove(ctx, req.Channel, req.ChatID)
	}
	return req, nil
}

func (m *PairingMethods) handleList(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	return map[string]interface{}{"requests": m.pairing.List()}, nil
}

type pairingRevokeParams struct {
	SenderID string `json:"senderId"`
	Channel  string `json:"channel"`
}

func (m *PairingMethods) handleRevoke(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	var p pairingRevokeParams
	if err := json.Unmarshal(params, &p); err != nil || p.SenderID == "" || p.Channel == "" {
		return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, "senderId and channel are required")
	}
	if err := m.pairing.Revoke(p.SenderID, p.Channel); err != nil {
		return nil, gateway.NewMethodError(protocol.ErrNotFound, err.Error())
	}
	return map[string]interface{}{"ok": true}, nil
}
