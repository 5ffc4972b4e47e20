package scheduler

import (
	"context"
	"sync"
)

// runHandle identifies one admitted run so it can be cancelled by session
// key without the caller needing to track contexts itself.
type runHandle struct {
	cancel context.CancelFunc
}

// sessionState enforces the per-session concurrency cap (MaxConcurrent)
// passed at schedule time and tracks active runs so /stop and /stopall can
// cancel them. Waiters are released with a simple broadcast-on-release
// pattern rather than a counting semaphore because MaxConcurrent can vary
// between calls for the same session (group chats raise it).
type sessionState struct {
	mu      sync.Mutex
	active  []*runHandle
	waiters []chan struct{}
}

// acquire blocks until fewer than max runs are active for this session,
// then registers handle as active. Returns ctx.Err() if ctx is cancelled
// while waiting.
func (s *sessionState) acquire(ctx context.Context, max int, handle *runHandle) error {
	s.mu.Lock()
	for len(s.active) >= max {
		wake := make(chan struct{})
		s.waiters = append(s.waiters, wake)
		s.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return ctx.Err()
		}

		s.mu.Lock()
	}
	s.active = append(s.active, handle)
	s.mu.Unlock()
	return nil
}

// release removes handle from the active set and wakes any callers blocked
// in acquire.
func (s *sessionState) release(handle *runHandle) {
	s.mu.Lock()
	for i, h := range s.active {
		if h == handle {
			s.active = append(s.active[:i], s.active[i+1:]...)
			break
		}
	}
	waiters := s.waiters
	s.waiters = nil
	s.mu.Unlock()

	for _, w := range waiters {
		close(w)
	}
}

// cancelAll cancels every active run for this session and reports whether
// there was at least one.
func (s *sessionState) cancelAll() bool {
	s.mu.Lock()
	active := append([]*runHandle{}, s.active...)
	s.mu.Unlock()

	for _, h := range active {
		h.cancel()
	}
	return len(active) > 0
}

// cancelLatest cancels only the most recently admitted run for this
// session and reports whether there was one.
func (s *sessionState) cancelLatest() bool {
	s.mu.Lock()
	var latest *runHandle
	if n := len(s.active); n > 0 {
		latest = s.active[n-1]
	}
	s.mu.Unlock()

	if latest == nil {
		return false
	}
	latest.cancel()
	return true
}
