package bus

import (
	"context"
	"sync"
	"time"
)

// MessageBus is the single-node process-wide pub/sub hub connecting channel
// monitors, the scheduler/agent runtime, and the gateway's WebSocket clients.
// Inbound and outbound messages flow through buffered channels so producers
// (channel webhook/stream handlers) only block once a buffer is full; event
// broadcast fans out synchronously to each subscriber's handler.
type MessageBus struct {
	inbound  chan InboundMessage
	outbound chan OutboundMessage

	mu         sync.RWMutex
	subs       map[string]EventHandler
	inboundSub map[string]MessageHandler
}

// New creates a MessageBus with reasonably sized buffers for a single-node
// gateway. Producers that publish faster than the buffer drains will block,
// which is the desired backpressure behaviour for in-process channels.
func New() *MessageBus {
	return &MessageBus{
		inbound:    make(chan InboundMessage, 256),
		outbound:   make(chan OutboundMessage, 256),
		subs:       make(map[string]EventHandler),
		inboundSub: make(map[string]MessageHandler),
	}
}

// PublishInbound enqueues a message received from a channel for consumption
// by the scheduler/agent runtime.
func (b *MessageBus) PublishInbound(msg InboundMessage) {
	b.inbound <- msg
}

// ConsumeInbound blocks until an inbound message is available or ctx is done.
func (b *MessageBus) ConsumeInbound(ctx context.Context) (InboundMessage, bool) {
	select {
	case msg := <-b.inbound:
		return msg, true
	case <-ctx.Done():
		return InboundMessage{}, false
	}
}

// PublishOutbound enqueues a message for delivery to a channel.
func (b *MessageBus) PublishOutbound(msg OutboundMessage) {
	b.outbound <- msg
}

// SubscribeOutbound blocks until an outbound message is available or ctx is done.
func (b *MessageBus) SubscribeOutbound(ctx context.Context) (OutboundMessage, bool) {
	select {
	case msg := <-b.outbound:
		return msg, true
	case <-ctx.Done():
		return OutboundMessage{}, false
	}
}

// Subscribe registers an event handler under id, replacing any prior
// handler registered for the same id (gateway clients resubscribe by
// connection id on reconnect).
func (b *MessageBus) Subscribe(id string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[id] = handler
}

// Unsubscribe removes the event handler registered under id.
func (b *MessageBus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

// Broadcast fans an event out to every subscribed handler. Handlers run
// synchronously on the caller's goroutine; callers that broadcast from a
// hot path should keep handlers cheap (the gateway client handler just
// writes to its own outbound websocket queue).
func (b *MessageBus) Broadcast(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, h := range b.subs {
		h(event)
	}
}

// SubscribeInbound stores an inbound-message handler under id, replacing any
// prior handler for that id. There is no per-channel filter, and
// PublishInbound does not call the stored handlers.
func (b *MessageBus) SubscribeInbound(id string, handler MessageHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inboundSub[id] = handler
}

// DedupeCache is a TTL-bounded, size-bounded set used to suppress duplicate
// inbound events (webhook retries, double-taps) by an arbitrary string key.
type DedupeCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[string]time.Time
}

// NewDedupeCache creates a cache that considers a key "seen" for ttl after
// the IsDuplicate call that recorded it. Once maxSize entries are held,
// expired entries are pruned, then one arbitrary entry if still full.
func NewDedupeCache(ttl time.Duration, maxSize int) *DedupeCache {
	return &DedupeCache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]time.Time),
	}
}

// IsDuplicate reports whether key was already recorded within the TTL
// window. A key that is not a duplicate is recorded with a fresh expiry;
// a duplicate hit leaves the existing expiry unchanged.
func (d *DedupeCache) IsDuplicate(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	if expiry, ok := d.entries[key]; ok && now.Before(expiry) {
		return true
	}

	if len(d.entries) >= d.maxSize {
		d.pruneLocked(now)
	}
	if len(d.entries) >= d.maxSize {
		// still full after pruning stale entries: drop one arbitrary entry
		for k := range d.entries {
			delete(d.entries, k)
			break
		}
	}

	d.entries[key] = now.Add(d.ttl)
	return false
}

func (d *DedupeCache) pruneLocked(now time.Time) {
	for k, expiry := range d.entries {
		if now.After(expiry) {
			delete(d.entries, k)
		}
	}
}
