package tools

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// AnnounceQueueItem is one completed subagent's result, queued for delivery
// back to its parent's conversation.
type AnnounceQueueItem struct {
	SubagentID string
	Label      string
	Status     string
	Result     string
	Runtime    time.Duration
	Iterations int
}

// AnnounceMetadata carries the routing info needed to deliver a batch of
// announces to the right parent session.
type AnnounceMetadata struct {
	OriginChannel    string
	OriginChatID     string
	OriginPeerKind   string
	OriginUserID     string
	ParentAgent      string
	OriginTraceID    string
	OriginRootSpanID string
}

type announceBucket struct {
	items []AnnounceQueueItem
	meta  AnnounceMetadata
	timer *time.Timer
}

// AnnounceQueue batches subagent completions that land within a short
// debounce window into a single inbound message, so a parent that spawned
// five subagents in quick succession gets one summary instead of five
// separate interruptions.
type AnnounceQueue struct {
	mu       sync.Mutex
	buckets  map[string]*announceBucket
	maxItems int
	debounce time.Duration

	onFlush      func(sessionKey string, items []AnnounceQueueItem, meta AnnounceMetadata)
	countRunning func(parentID string) int
}

// NewAnnounceQueue builds a queue that flushes a session's pending
// announces after debounceMillis of inactivity, or immediately once
// maxItems accumulate. countRunning reports how many subagents are still
// active for a parent, surfaced in the flushed message via FormatBatchedAnnounce.
func NewAnnounceQueue(
	maxItems, debounceMillis int,
	onFlush func(sessionKey string, items []AnnounceQueueItem, meta AnnounceMetadata),
	countRunning func(parentID string) int,
) *AnnounceQueue {
	return &AnnounceQueue{
		buckets:      make(map[string]*announceBucket),
		maxItems:     maxItems,
		debounce:     time.Duration(debounceMillis) * time.Millisecond,
		onFlush:      onFlush,
		countRunning: countRunning,
	}
}

// Enqueue adds item to sessionKey's pending batch, (re)starting its
// debounce timer, and flushes immediately if the batch hits maxItems.
func (q *AnnounceQueue) Enqueue(sessionKey string, item AnnounceQueueItem, meta AnnounceMetadata) {
	q.mu.Lock()
	defer q.mu.Unlock()

	b, ok := q.buckets[sessionKey]
	if !ok {
		b = &announceBucket{meta: meta}
		q.buckets[sessionKey] = b
	}
	b.items = append(b.items, item)
	b.meta = meta

	if b.timer != nil {
		b.timer.Stop()
	}

	if q.maxItems > 0 && len(b.items) >= q.maxItems {
		q.flushLocked(sessionKey)
		return
	}

	b.timer = time.AfterFunc(q.debounce, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		q.flushLocked(sessionKey)
	})
}

// flushLocked delivers and clears a session's pending batch. Caller must
// hold q.mu.
func (q *AnnounceQueue) flushLocked(sessionKey string) {
	b, ok := q.buckets[sessionKey]
	if !ok || len(b.items) == 0 {
		return
	}
	delete(q.buckets, sessionKey)
	if q.onFlush != nil {
		q.onFlush(sessionKey, b.items, b.meta)
	}
}

// FormatBatchedAnnounce renders a batch of completed subagent results into a
// single message suitable for injecting into the parent's conversation.
func FormatBatchedAnnounce(items []AnnounceQueueItem, remainingActive int) string {
	var sb strings.Builder
	if len(items) == 1 {
		it := items[0]
		fmt.Fprintf(&sb, "Subagent '%s' %s in %s (%d iterations):\n\n%s",
			it.Label, it.Status, it.Runtime.Round(time.Second), it.Iterations, it.Result)
	} else {
		fmt.Fprintf(&sb, "%d subagents finished:\n", len(items))
		for _, it := range items {
			fmt.Fprintf(&sb, "\n## %s (%s, %s)\n%s\n", it.Label, it.Status, it.Runtime.Round(time.Second), it.Result)
		}
	}
	if remainingActive > 0 {
		fmt.Fprintf(&sb, "\n\n(%d subagent(s) still running)", remainingActive)
	}
	return sb.String()
}
