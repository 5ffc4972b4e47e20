package tracing

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	traceIDKey ctxKey = iota
	collectorKey
	parentSpanIDKey
	announceParentSpanIDKey
	delegateParentTraceIDKey
)

// WithTraceID attaches the active trace id to ctx.
func WithTraceID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

// TraceIDFromContext returns the trace id attached to ctx, or uuid.Nil.
func TraceIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(traceIDKey).(uuid.UUID)
	return id
}

// WithCollector attaches the Collector recording the active trace to ctx.
func WithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, collectorKey, c)
}

// CollectorFromContext returns the Collector attached to ctx, or nil.
func CollectorFromContext(ctx context.Context) *Collector {
	c, _ := ctx.Value(collectorKey).(*Collector)
	return c
}

// WithParentSpanID attaches the span id that subsequent LLM/tool spans
// within this call chain should nest under.
func WithParentSpanID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, parentSpanIDKey, id)
}

// ParentSpanIDFromContext returns the parent span id attached to ctx, or uuid.Nil.
func ParentSpanIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(parentSpanIDKey).(uuid.UUID)
	return id
}

// WithAnnounceParentSpanID marks the root span an announce (scheduled,
// parentless) run should nest its agent span under, so the trace UI shows
// announce runs grouped under the trace that scheduled them.
func WithAnnounceParentSpanID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, announceParentSpanIDKey, id)
}

// AnnounceParentSpanIDFromContext returns the announce parent span id, or uuid.Nil.
func AnnounceParentSpanIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(announceParentSpanIDKey).(uuid.UUID)
	return id
}

// WithDelegateParentTraceID marks the trace that a delegated sub-run should
// link back to as its ParentTraceID when the sub-run creates its own trace.
func WithDelegateParentTraceID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, delegateParentTraceIDKey, id)
}

// DelegateParentTraceIDFromContext returns the delegate parent trace id, or uuid.Nil.
func DelegateParentTraceIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(delegateParentTraceIDKey).(uuid.UUID)
	return id
}
