// Package tracing records per-run traces (one per agent turn) and the
// LLM-call/tool-call spans nested under them, so a doctor/inspection surface
// can reconstruct exactly what an agent did for a given request. It works
// standalone with no backing store — traces live only as long as the
// process keeps their context around — and optionally persists through a
// store.TracingStore when one is configured.
package tracing

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/openclaw/openclaw/internal/store"
)

// Collector accumulates spans for in-flight traces and forwards completed
// trace/span records to an optional backing store.
type Collector struct {
	store   store.TracingStore
	verbose bool

	mu     sync.Mutex
	active map[uuid.UUID]*store.TraceData
	spans  map[uuid.UUID][]store.SpanData

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewCollector creates a Collector. st may be nil, in which case traces are
// tracked only in memory for the lifetime of the process (sufficient for
// the CLI chat client and doctor commands against a live gateway).
func NewCollector(st store.TracingStore) *Collector {
	return &Collector{
		store:   st,
		active:  make(map[uuid.UUID]*store.TraceData),
		spans:   make(map[uuid.UUID][]store.SpanData),
		stopped: make(chan struct{}),
	}
}

// SetVerbose controls whether spans capture full input/output payloads
// instead of short previews. A new Collector is not verbose; no environment
// variable sets it.
func (c *Collector) SetVerbose(v bool) { c.verbose = v }

// Verbose reports whether verbose span capture is enabled.
func (c *Collector) Verbose() bool { return c.verbose }

// Start is a no-op hook kept symmetrical with Stop for callers that defer
// a shutdown sequence around the collector's lifetime.
func (c *Collector) Start() {}

// Stop releases any resources held by the collector. Safe to call once.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopped) })
}

// CreateTrace registers a new in-flight trace and persists it if a store is
// configured.
func (c *Collector) CreateTrace(ctx context.Context, trace *store.TraceData) error {
	c.mu.Lock()
	c.active[trace.ID] = trace
	c.mu.Unlock()

	if c.store != nil {
		return c.store.CreateTrace(trace)
	}
	return nil
}

// EmitSpan records a completed span under its trace.
func (c *Collector) EmitSpan(span store.SpanData) {
	if span.ID == uuid.Nil {
		span.ID = uuid.New()
	}
	c.mu.Lock()
	c.spans[span.TraceID] = append(c.spans[span.TraceID], span)
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.CreateSpan(span); err != nil {
			// Span persistence is best-effort; the in-memory copy always
			// survives for the lifetime of the process.
			return
		}
	}
}

// FinishTrace marks a trace complete with its terminal status and output,
// persisting it if a store is configured.
func (c *Collector) FinishTrace(ctx context.Context, traceID uuid.UUID, status store.TraceStatus, errMsg, outputPreview string) {
	c.mu.Lock()
	trace, ok := c.active[traceID]
	if ok {
		delete(c.active, traceID)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	if c.store != nil {
		_ = c.store.FinishTrace(traceID, status, errMsg, outputPreview, trace.StartTime)
	}
}

// Trace returns the spans recorded so far for traceID, most useful for
// tests and the doctor command's live inspection of an in-flight run.
func (c *Collector) Trace(traceID uuid.UUID) []store.SpanData {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]store.SpanData, len(c.spans[traceID]))
	copy(out, c.spans[traceID])
	return out
}
