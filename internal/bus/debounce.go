package bus

import (
	"sync"
	"time"
)

// InboundDebouncer merges rapid-fire inbound messages from the same sender
// into a single flush, matching the TS createInboundDebouncer behaviour:
// a burst of messages from one chat within window resets the same timer and
// is delivered as one concatenated message once the sender goes quiet.
type InboundDebouncer struct {
	window time.Duration
	flush  func(InboundMessage)

	mu      sync.Mutex
	pending map[string]*pendingGroup
	stopped bool
}

type pendingGroup struct {
	timer *time.Timer
	msg   InboundMessage
}

// NewInboundDebouncer creates a debouncer that calls flush with the merged
// message once window has elapsed since the last Push for that sender/chat.
func NewInboundDebouncer(window time.Duration, flush func(InboundMessage)) *InboundDebouncer {
	return &InboundDebouncer{
		window:  window,
		flush:   flush,
		pending: make(map[string]*pendingGroup),
	}
}

func debounceKey(msg InboundMessage) string {
	return msg.Channel + "|" + msg.ChatID + "|" + msg.SenderID
}

// Push enqueues msg, merging it with any message still pending for the same
// channel/chat/sender and restarting the debounce window. A window of zero
// disables merging and flushes immediately.
func (d *InboundDebouncer) Push(msg InboundMessage) {
	if d.window <= 0 {
		d.flush(msg)
		return
	}

	key := debounceKey(msg)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if existing, ok := d.pending[key]; ok {
		existing.timer.Stop()
		existing.msg = mergeInbound(existing.msg, msg)
		existing.timer = time.AfterFunc(d.window, func() { d.fire(key) })
		return
	}

	group := &pendingGroup{msg: msg}
	group.timer = time.AfterFunc(d.window, func() { d.fire(key) })
	d.pending[key] = group
}

func (d *InboundDebouncer) fire(key string) {
	d.mu.Lock()
	group, ok := d.pending[key]
	if ok {
		delete(d.pending, key)
	}
	d.mu.Unlock()
	if ok {
		d.flush(group.msg)
	}
}

// mergeInbound folds next into prior, concatenating text content and media
// so the flushed message reads as one combined turn.
func mergeInbound(prior, next InboundMessage) InboundMessage {
	merged := next
	if prior.Content != "" {
		if next.Content != "" {
			merged.Content = prior.Content + "\n" + next.Content
		} else {
			merged.Content = prior.Content
		}
	}
	if len(prior.Media) > 0 {
		merged.Media = append(append([]string{}, prior.Media...), next.Media...)
	}
	return merged
}

// Stop flushes any pending groups immediately. Messages pushed after Stop
// are dropped, unless the window is zero (those still flush immediately).
func (d *InboundDebouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	pending := d.pending
	d.pending = make(map[string]*pendingGroup)
	d.mu.Unlock()

	for _, group := range pending {
		group.timer.Stop()
		d.flush(group.msg)
	}
}
