package tools

import (
	"context"

	"github.com/openclaw/openclaw/internal/bus"
	"github.com/openclaw/openclaw/internal/store"
)

// SessionStoreAware is implemented by tools that need read/write access to
// session state (sessions_list, session_status, sessions_history, sessions_send).
type SessionStoreAware interface {
	SetSessionStore(store.SessionStore)
}

// BusAware is implemented by tools that publish onto the message bus
// (sessions_send, message) rather than just returning a result to the model.
type BusAware interface {
	SetMessageBus(*bus.MessageBus)
}

// ChannelSender delivers content to a chat on a named channel; it's the
// function signature of channels.Manager.SendToChannel, kept here as a type
// alias so tools don't need to import internal/channels (which would create
// an import cycle back through internal/tools).
type ChannelSender func(ctx context.Context, channel, chatID, content string) error

// ChannelSenderAware is implemented by tools that push messages out to a
// live channel connection (message).
type ChannelSenderAware interface {
	SetChannelSender(ChannelSender)
}

// PathAllowable is implemented by filesystem tools that accept extra
// allowed path prefixes beyond the workspace root (e.g. skills directories).
type PathAllowable interface {
	AllowPaths(prefixes ...string)
}
