// Package scheduler serializes and rate-limits agent runs across lanes and
// sessions. It is the single choke point between inbound traffic (chat
// messages, subagent announcements, delegate/handoff hops, cron ticks) and
// the agent loop: every run, regardless of origin, is scheduled through here
// so that per-lane concurrency caps, per-session single-flight semantics,
// and cooperative cancellation ("/stop", "/stopall") are enforced in one
// place instead of re-implemented at each call site.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/openclaw/openclaw/internal/agent"
)

// RunFunc executes one agent run. Implementations resolve the target agent
// from req.SessionKey and delegate to its Loop.Run.
type RunFunc func(ctx context.Context, req agent.RunRequest) (*agent.RunResult, error)

// Outcome is delivered on a Schedule/ScheduleWithOpts channel exactly once.
type Outcome struct {
	Result *agent.RunResult
	Err    error
}

// ScheduleOpts customizes admission for a single scheduled run.
type ScheduleOpts struct {
	// MaxConcurrent caps how many runs for the SAME session key may be
	// in flight at once. Most traffic uses 1 (strict single-flight per
	// session); group chats that allow several users to talk at once
	// pass a higher value.
	MaxConcurrent int
}

// TokenEstimateFunc reports a session's current estimated prompt token
// count and its model's context window size, used to force serial
// execution when a session is close to running out of context room.
type TokenEstimateFunc func(sessionKey string) (tokens, contextWindow int)

type laneState struct {
	name  string
	sem   chan struct{} // execution concurrency
	queue chan struct{} // admission/backpressure (queued + running)
}

// Scheduler is the gateway's central run admission point.
type Scheduler struct {
	runFunc  RunFunc
	queueCfg QueueConfig

	mu       sync.Mutex
	lanes    map[string]*laneState
	sessions map[string]*sessionState

	tokenEstFn TokenEstimateFunc

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewScheduler builds a Scheduler with the given lane topology and queue
// tuning, routing every admitted run through runFunc.
func NewScheduler(lanes []LaneConfig, queueCfg QueueConfig, runFunc RunFunc) *Scheduler {
	s := &Scheduler{
		runFunc:  runFunc,
		queueCfg: queueCfg,
		lanes:    make(map[string]*laneState, len(lanes)),
		sessions: make(map[string]*sessionState),
	}
	for _, lc := range lanes {
		maxConc := lc.MaxConcurrent
		if maxConc <= 0 {
			maxConc = 1
		}
		queueSize := lc.QueueSize
		if queueSize < maxConc {
			queueSize = maxConc
		}
		s.lanes[lc.Name] = &laneState{
			name:  lc.Name,
			sem:   make(chan struct{}, maxConc),
			queue: make(chan struct{}, queueSize),
		}
	}
	return s
}

// SetTokenEstimateFunc installs the callback used to throttle concurrency
// when a session's context usage is approaching its model's window.
func (s *Scheduler) SetTokenEstimateFunc(fn TokenEstimateFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenEstFn = fn
}

// Schedule admits req into lane with single-flight semantics for its
// session (MaxConcurrent=1). Equivalent to ScheduleWithOpts with the
// default opts.
func (s *Scheduler) Schedule(ctx context.Context, lane string, req agent.RunRequest) <-chan Outcome {
	return s.ScheduleWithOpts(ctx, lane, req, ScheduleOpts{MaxConcurrent: 1})
}

// ScheduleWithOpts admits req into lane, blocking the caller only on lane
// backpressure (never on execution) before returning a channel that
// receives exactly one Outcome once the run (or its admission) concludes.
func (s *Scheduler) ScheduleWithOpts(ctx context.Context, lane string, req agent.RunRequest, opts ScheduleOpts) <-chan Outcome {
	out := make(chan Outcome, 1)

	ln, ok := s.laneFor(lane)
	if !ok {
		out <- Outcome{Err: fmt.Errorf("scheduler: unknown lane %q", lane)}
		close(out)
		return out
	}

	maxConc := opts.MaxConcurrent
	if maxConc <= 0 {
		maxConc = 1
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(out)

		select {
		case ln.queue <- struct{}{}:
		case <-ctx.Done():
			out <- Outcome{Err: ctx.Err()}
			return
		}
		defer func() { <-ln.queue }()

		if effective := s.throttledMax(req.SessionKey, maxConc); effective < maxConc {
			maxConc = effective
		}

		sess := s.sessionFor(req.SessionKey)
		runCtx, cancel := context.WithCancel(ctx)
		handle := &runHandle{cancel: cancel}

		if err := sess.acquire(runCtx, maxConc, handle); err != nil {
			cancel()
			out <- Outcome{Err: err}
			return
		}
		defer sess.release(handle)

		select {
		case ln.sem <- struct{}{}:
		case <-runCtx.Done():
			out <- Outcome{Err: runCtx.Err()}
			return
		}
		defer func() { <-ln.sem }()

		result, err := s.runFunc(runCtx, req)
		out <- Outcome{Result: result, Err: err}
	}()

	return out
}

// throttledMax returns maxConc unless the session's estimated token usage
// is close enough to its context window to warrant forcing serial
// execution (returns 1 in that case).
func (s *Scheduler) throttledMax(sessionKey string, maxConc int) int {
	s.mu.Lock()
	fn := s.tokenEstFn
	ratio := s.queueCfg.TokenThrottleRatio
	s.mu.Unlock()

	if fn == nil || maxConc <= 1 {
		return maxConc
	}
	tokens, contextWindow := fn(sessionKey)
	if contextWindow <= 0 {
		return maxConc
	}
	if float64(tokens)/float64(contextWindow) >= ratio {
		return 1
	}
	return maxConc
}

func (s *Scheduler) laneFor(lane string) (*laneState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ln, ok := s.lanes[lane]
	return ln, ok
}

func (s *Scheduler) sessionFor(sessionKey string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey]
	if !ok {
		sess = &sessionState{}
		s.sessions[sessionKey] = sess
	}
	return sess
}

// CancelSession cancels every run currently active for sessionKey (used by
// "/stopall"). Reports whether any run was cancelled.
func (s *Scheduler) CancelSession(sessionKey string) bool {
	sess := s.existingSession(sessionKey)
	if sess == nil {
		return false
	}
	return sess.cancelAll()
}

// CancelOneSession cancels the most recently started run for sessionKey
// (used by "/stop"). Reports whether a run was cancelled.
func (s *Scheduler) CancelOneSession(sessionKey string) bool {
	sess := s.existingSession(sessionKey)
	if sess == nil {
		return false
	}
	return sess.cancelLatest()
}

func (s *Scheduler) existingSession(sessionKey string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sessionKey]
}

// Stop cancels every in-flight run across all sessions and blocks until
// they have all returned. Intended for graceful shutdown.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		sessions := make([]*sessionState, 0, len(s.sessions))
		for _, sess := range s.sessions {
			sessions = append(sessions, sess)
		}
		s.mu.Unlock()

		for _, sess := range sessions {
			sess.cancelAll()
		}
		s.wg.Wait()
	})
}
