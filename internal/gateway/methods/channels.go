// Package methods implements the gateway's domain-specific RPC method
// handlers (channels, sessions, cron, pairing, skills, exec approval),
// each registering its surface against a gateway.MethodRouter.
package methods

import (
	"context"
	"encoding/json"

	"github.com/openclaw/openclaw/internal/channels"
	"github.com/openclaw/openclaw/internal/gateway"
	"github.com/openclaw/openclaw/pkg/protocol"
)

// ChannelsMethods exposes channel status/toggle/list over RPC.
type ChannelsMethods struct {
	mgr *channels.Manager
}

func NewChannelsMethods(mgr *channels.Manager) *ChannelsMethods {
	return &ChannelsMethods{mgr: mgr}
}

func (m *ChannelsMethods) Register(r *gateway.MethodRouter) {
	r.Register(protocol.MethodChannelsList, m.handleList)
	r.Register(protocol.MethodChannelsStatus, m.handleStatus)
	r.Register(protocol.MethodChannelsToggle, m.handleToggle)
}

func (m *ChannelsMethods) handleList(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	return map[string]interface{}{"channels": m.mgr.GetEnabledChannels()}, nil
}

func (m *ChannelsMethods) handleStatus(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	return m.mgr.GetStatus(), nil
}

type channelsToggleParams struct {
	Channel string `json:"channel"`
	Enabled bool   `json:"enabled"`
}

// handleToggle only supports disabling a running channel: channels are
// wired up from config.json at startup, so re-enabling one that was never
// registered requires a restart.
func (m *ChannelsMethods) handleToggle(ctx context.Context, s *gateway.Server, c *gateway.Client, params json.RawMessage) (interface{}, error) {
	var p channelsToggleParams
	if err := json.Unmarshal(params, &p); err != nil || p.Channel == "" {
		return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, "channel is required")
	}
	if p.Enabled {
		return nil, gateway.NewMethodError(protocol.ErrInvalidRequest, "re-enabling a channel requires a gateway restart")
	}
	if _, ok := m.mgr.GetChannel(p.Channel); !ok {
		return nil, gateway.NewMethodError(protocol.ErrNotFound, "channel not running")
	}
	m.mgr.UnregisterChannel(p.Channel)
	return map[string]interface{}{"ok": true}, nil
}
