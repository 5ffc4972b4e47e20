package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/openclaw/openclaw/pkg/protocol"
)

// HandlerFunc answers one RequestFrame. Returning an error produces an
// ErrInternal response unless the error is a *MethodError, whose Code is
// used verbatim (e.g. ErrNotFound, ErrForbidden).
type HandlerFunc func(ctx context.Context, s *Server, c *Client, params json.RawMessage) (interface{}, error)

// MethodError lets a handler choose the wire error code returned to the
// caller instead of always falling back to ErrInternal.
type MethodError struct {
	Code    string
	Message string
}

func (e *MethodError) Error() string { return e.Message }

// NewMethodError builds a MethodError with one of the protocol.Err* codes.
func NewMethodError(code, message string) *MethodError {
	return &MethodError{Code: code, Message: message}
}

// MethodRouter dispatches RequestFrame.Method to registered handlers. It is
// populated incrementally: a handful of baseline methods are registered by
// NewMethodRouter, and each domain package (cron, sessions, pairing, skills,
// subagents, ...) registers the rest of its surface against Server.Router()
// during startup wiring.
type MethodRouter struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewMethodRouter builds a router with the baseline methods every gateway
// exposes regardless of which optional subsystems are wired in.
func NewMethodRouter(s *Server) *MethodRouter {
	r := &MethodRouter{handlers: make(map[string]HandlerFunc)}

	r.Register(protocol.MethodHealth, func(ctx context.Context, s *Server, c *Client, params json.RawMessage) (interface{}, error) {
		return map[string]interface{}{"status": "ok", "protocol": protocol.ProtocolVersion}, nil
	})

	r.Register(protocol.MethodConnect, func(ctx context.Context, s *Server, c *Client, params json.RawMessage) (interface{}, error) {
		return map[string]interface{}{"clientId": c.id, "protocol": protocol.ProtocolVersion}, nil
	})

	return r
}

// Register binds a method name to a handler. A later call for the same
// method replaces the earlier one, which lets tests and hot-reload wiring
// override baseline behavior.
func (r *MethodRouter) Register(method string, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[method] = h
}

// Methods returns the currently-registered method names in no particular
// order (map iteration order); callers needing a stable listing
// (e.g. the discovery method) should sort the result themselves.
func (r *MethodRouter) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Dispatch looks up and invokes the handler for req.Method, turning its
// result (or error) into a ResponseFrame ready to write back to the client.
func (r *MethodRouter) Dispatch(ctx context.Context, s *Server, c *Client, req protocol.RequestFrame) *protocol.ResponseFrame {
	r.mu.RLock()
	h, ok := r.handlers[req.Method]
	r.mu.RUnlock()

	if !ok {
		return protocol.NewErrorResponse(req.ID, protocol.ErrNotFound, fmt.Sprintf("unknown method %q", req.Method))
	}

	payload, err := h(ctx, s, c, req.Params)
	if err != nil {
		var me *MethodError
		if e, ok := err.(*MethodError); ok {
			me = e
		} else {
			me = &MethodError{Code: protocol.ErrInternal, Message: err.Error()}
		}
		slog.Warn("rpc.method_error", "method", req.Method, "code", me.Code, "error", me.Message)
		return protocol.NewErrorResponse(req.ID, me.Code, me.Message)
	}
	return protocol.NewOKResponse(req.ID, payload)
}
