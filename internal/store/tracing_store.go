package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TraceStatus is the lifecycle state of a trace (one agent Run).
type TraceStatus string

const (
	TraceStatusRunning   TraceStatus = "running"
	TraceStatusCompleted TraceStatus = "completed"
	TraceStatusError     TraceStatus = "error"
	TraceStatusCancelled TraceStatus = "cancelled"
)

// SpanType discriminates the kind of work a span recorded.
type SpanType string

const (
	SpanTypeAgent    SpanType = "agent"
	SpanTypeLLMCall  SpanType = "llm_call"
	SpanTypeToolCall SpanType = "tool_call"
)

// SpanStatus mirrors TraceStatus at the span level.
type SpanStatus string

const (
	SpanStatusCompleted SpanStatus = "completed"
	SpanStatusError      SpanStatus = "error"
)

// SpanLevel is a coarse severity bucket, following the same vocabulary
// observability backends (e.g. Langfuse) use for span levels.
const (
	SpanLevelDefault = "DEFAULT"
	SpanLevelWarning = "WARNING"
	SpanLevelError   = "ERROR"
)

// TraceData is the root record for one end-to-end agent run: a chat turn,
// a cron job execution, or a subagent spawn. LLM calls and tool calls within
// the run are recorded as child SpanData rows sharing the same TraceID.
type TraceData struct {
	ID           uuid.UUID
	ParentTraceID *uuid.UUID // set when this run was delegated from another trace
	AgentID      *uuid.UUID
	RunID        string
	SessionKey   string
	UserID       string
	Channel      string
	Name         string
	InputPreview string
	OutputPreview string
	Status       TraceStatus
	Error        string
	StartTime    time.Time
	EndTime      *time.Time
	DurationMS   int
	Tags         []string
	CreatedAt    time.Time
}

// SpanData is a single timed unit of work (an LLM call, a tool call, or the
// enclosing agent span) nested under a TraceData by TraceID/ParentSpanID.
type SpanData struct {
	ID           uuid.UUID
	TraceID      uuid.UUID
	ParentSpanID *uuid.UUID
	AgentID      *uuid.UUID
	SpanType     SpanType
	Name         string
	StartTime    time.Time
	EndTime      *time.Time
	DurationMS   int
	Model        string
	Provider     string
	ToolName     string
	ToolCallID   string
	InputPreview string
	OutputPreview string
	InputTokens  int
	OutputTokens int
	FinishReason string
	Status       SpanStatus
	Level        string
	Error        string
	Metadata     json.RawMessage
	CreatedAt    time.Time
}

// TracingStore persists traces and spans for later inspection (a doctor/UI
// surface, not required in standalone mode — the in-memory Collector works
// without one).
type TracingStore interface {
	CreateTrace(trace *TraceData) error
	FinishTrace(traceID uuid.UUID, status TraceStatus, errMsg, outputPreview string, end time.Time) error
	CreateSpan(span SpanData) error
	ListTraces(agentID *uuid.UUID, limit int) ([]TraceData, error)
	GetTrace(id uuid.UUID) (*TraceData, []SpanData, error)
}
