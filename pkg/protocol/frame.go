// Package protocol defines the wire format for the gateway's RPC channel:
// newline-delimited JSON frames exchanged over the WebSocket (or POST /rpc)
// transport, plus the method/event name constants both sides agree on.
package protocol

import (
	"encoding/json"
	"fmt"
)

// ProtocolVersion is bumped whenever the frame shape or a method's params
// change in a way clients must be aware of.
const ProtocolVersion = 1

// FrameType discriminates the three frame shapes on the wire.
type FrameType string

const (
	FrameTypeRequest  FrameType = "request"
	FrameTypeResponse FrameType = "response"
	FrameTypeEvent    FrameType = "event"
)

// RequestFrame is a single RPC call from a client.
type RequestFrame struct {
	Type   FrameType       `json:"type"`
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// ResponseFrame answers a RequestFrame by ID.
type ResponseFrame struct {
	Type    FrameType   `json:"type"`
	ID      string      `json:"id"`
	OK      bool        `json:"ok"`
	Payload interface{} `json:"payload,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries a machine-readable code alongside a human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EventFrame is a server-pushed, unsolicited notification (no request id).
type EventFrame struct {
	Type    FrameType   `json:"type"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// Error codes used in ResponseFrame.Error.Code.
const (
	ErrInvalidRequest = "invalid_request"
	ErrNotFound       = "not_found"
	ErrUnauthorized   = "unauthorized"
	ErrForbidden      = "forbidden"
	ErrRateLimited    = "rate_limited"
	ErrInternal       = "internal"
)

// NewOKResponse builds a successful ResponseFrame for request id.
func NewOKResponse(id string, payload interface{}) *ResponseFrame {
	return &ResponseFrame{Type: FrameTypeResponse, ID: id, OK: true, Payload: payload}
}

// NewErrorResponse builds a failed ResponseFrame for request id.
func NewErrorResponse(id, code, message string) *ResponseFrame {
	return &ResponseFrame{Type: FrameTypeResponse, ID: id, OK: false, Error: &ErrorBody{Code: code, Message: message}}
}

// NewEvent builds an EventFrame for broadcast to connected clients.
func NewEvent(name string, payload interface{}) *EventFrame {
	return &EventFrame{Type: FrameTypeEvent, Event: name, Payload: payload}
}

// frameEnvelope is used only to sniff the "type" discriminator off a raw frame.
type frameEnvelope struct {
	Type FrameType `json:"type"`
}

// ParseFrameType sniffs the discriminator field off a raw JSON frame without
// fully unmarshaling it, so the reader can pick the right concrete type.
func ParseFrameType(raw []byte) (FrameType, error) {
	var env frameEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("parse frame type: %w", err)
	}
	if env.Type == "" {
		return "", fmt.Errorf("frame missing type field")
	}
	return env.Type, nil
}
