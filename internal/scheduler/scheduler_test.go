package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openclaw/openclaw/internal/agent"
)

func testLanes() []LaneConfig {
	return []LaneConfig{
		{Name: LaneMain, MaxConcurrent: 2, QueueSize: 10},
		{Name: LaneCron, MaxConcurrent: 1, QueueSize: 10},
	}
}

func TestSchedule_RunsAndReturnsResult(t *testing.T) {
	runFn := func(ctx context.Context, req agent.RunRequest) (*agent.RunResult, error) {
		return &agent.RunResult{Content: "hello " + req.Message}, nil
	}
	sched := NewScheduler(testLanes(), DefaultQueueConfig(), runFn)
	defer sched.Stop()

	out := <-sched.Schedule(context.Background(), LaneMain, agent.RunRequest{SessionKey: "s1", Message: "world"})
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if out.Result.Content != "hello world" {
		t.Fatalf("unexpected content: %q", out.Result.Content)
	}
}

func TestSchedule_UnknownLane(t *testing.T) {
	sched := NewScheduler(testLanes(), DefaultQueueConfig(), func(ctx context.Context, req agent.RunRequest) (*agent.RunResult, error) {
		return &agent.RunResult{}, nil
	})
	defer sched.Stop()

	out := <-sched.Schedule(context.Background(), "bogus", agent.RunRequest{SessionKey: "s1"})
	if out.Err == nil {
		t.Fatal("expected error for unknown lane")
	}
}

// TestSchedule_SameSessionSerializesByDefault verifies that two runs
// scheduled for the same session key with the default MaxConcurrent=1 never
// execute concurrently.
func TestSchedule_SameSessionSerializesByDefault(t *testing.T) {
	var running int32
	var maxSeen int32
	release := make(chan struct{})

	runFn := func(ctx context.Context, req agent.RunRequest) (*agent.RunResult, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&maxSeen)
			if n <= old || atomic.CompareAndSwapInt32(&maxSeen, old, n) {
				break
			}
		}
		<-release
		atomic.AddInt32(&running, -1)
		return &agent.RunResult{}, nil
	}

	sched := NewScheduler(testLanes(), DefaultQueueConfig(), runFn)
	defer sched.Stop()

	out1 := sched.Schedule(context.Background(), LaneMain, agent.RunRequest{SessionKey: "same"})
	out2 := sched.Schedule(context.Background(), LaneMain, agent.RunRequest{SessionKey: "same"})

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&running); got != 1 {
		t.Fatalf("expected exactly 1 run in flight for serialized session, got %d", got)
	}
	close(release)
	<-out1
	<-out2

	if atomic.LoadInt32(&maxSeen) != 1 {
		t.Fatalf("expected max concurrent runs of 1 for same session, saw %d", maxSeen)
	}
}

// TestScheduleWithOpts_GroupAllowsConcurrency verifies that a higher
// MaxConcurrent (as used for group chats) permits overlapping runs.
func TestScheduleWithOpts_GroupAllowsConcurrency(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(3)
	barrier := make(chan struct{})

	runFn := func(ctx context.Context, req agent.RunRequest) (*agent.RunResult, error) {
		wg.Done()
		<-barrier
		return &agent.RunResult{}, nil
	}

	sched := NewScheduler(testLanes(), DefaultQueueConfig(), runFn)
	defer sched.Stop()

	outs := make([]<-chan Outcome, 3)
	for i := range outs {
		outs[i] = sched.ScheduleWithOpts(context.Background(), LaneMain, agent.RunRequest{SessionKey: "group"}, ScheduleOpts{MaxConcurrent: 3})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected all 3 group runs to start concurrently")
	}
	close(barrier)
	for _, o := range outs {
		<-o
	}
}

func TestCancelOneSession_CancelsLatestRun(t *testing.T) {
	started := make(chan struct{}, 2)
	runFn := func(ctx context.Context, req agent.RunRequest) (*agent.RunResult, error) {
		started <- struct{}{}
		<-ctx.Done()
		return nil, ctx.Err()
	}

	sched := NewScheduler(testLanes(), DefaultQueueConfig(), runFn)
	defer sched.Stop()

	out := sched.ScheduleWithOpts(context.Background(), LaneMain, agent.RunRequest{SessionKey: "cancel-one"}, ScheduleOpts{MaxConcurrent: 2})
	<-started

	out2 := sched.ScheduleWithOpts(context.Background(), LaneMain, agent.RunRequest{SessionKey: "cancel-one"}, ScheduleOpts{MaxConcurrent: 2})
	<-started

	if !sched.CancelOneSession("cancel-one") {
		t.Fatal("expected CancelOneSession to report a cancellation")
	}

	o1 := <-out
	o2 := <-out2
	cancelledCount := 0
	for _, o := range []Outcome{o1, o2} {
		if errors.Is(o.Err, context.Canceled) {
			cancelledCount++
		}
	}
	if cancelledCount != 1 {
		t.Fatalf("expected exactly 1 of 2 runs cancelled, got %d", cancelledCount)
	}
}

func TestCancelSession_CancelsAllActiveRuns(t *testing.T) {
	started := make(chan struct{}, 2)
	runFn := func(ctx context.Context, req agent.RunRequest) (*agent.RunResult, error) {
		started <- struct{}{}
		<-ctx.Done()
		return nil, ctx.Err()
	}

	sched := NewScheduler(testLanes(), DefaultQueueConfig(), runFn)
	defer sched.Stop()

	out1 := sched.ScheduleWithOpts(context.Background(), LaneMain, agent.RunRequest{SessionKey: "cancel-all"}, ScheduleOpts{MaxConcurrent: 2})
	<-started
	out2 := sched.ScheduleWithOpts(context.Background(), LaneMain, agent.RunRequest{SessionKey: "cancel-all"}, ScheduleOpts{MaxConcurrent: 2})
	<-started

	if !sched.CancelSession("cancel-all") {
		t.Fatal("expected CancelSession to report a cancellation")
	}

	o1 := <-out1
	o2 := <-out2
	if !errors.Is(o1.Err, context.Canceled) || !errors.Is(o2.Err, context.Canceled) {
		t.Fatalf("expected both runs cancelled, got %v, %v", o1.Err, o2.Err)
	}
}

func TestCancelSession_NoActiveRuns(t *testing.T) {
	sched := NewScheduler(testLanes(), DefaultQueueConfig(), func(ctx context.Context, req agent.RunRequest) (*agent.RunResult, error) {
		return &agent.RunResult{}, nil
	})
	defer sched.Stop()

	if sched.CancelSession("never-scheduled") {
		t.Fatal("expected no cancellation for a session with no runs")
	}
}

func TestSetTokenEstimateFunc_ForcesSerialNearContextWindow(t *testing.T) {
	var running int32
	var maxSeen int32
	release := make(chan struct{})

	runFn := func(ctx context.Context, req agent.RunRequest) (*agent.RunResult, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&maxSeen)
			if n <= old || atomic.CompareAndSwapInt32(&maxSeen, old, n) {
				break
			}
		}
		<-release
		atomic.AddInt32(&running, -1)
		return &agent.RunResult{}, nil
	}

	sched := NewScheduler(testLanes(), DefaultQueueConfig(), runFn)
	defer sched.Stop()
	// Report 90% context usage, above the default 0.85 throttle ratio.
	sched.SetTokenEstimateFunc(func(sessionKey string) (int, int) { return 90000, 100000 })

	out1 := sched.ScheduleWithOpts(context.Background(), LaneMain, agent.RunRequest{SessionKey: "hot"}, ScheduleOpts{MaxConcurrent: 3})
	out2 := sched.ScheduleWithOpts(context.Background(), LaneMain, agent.RunRequest{SessionKey: "hot"}, ScheduleOpts{MaxConcurrent: 3})

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&running); got != 1 {
		t.Fatalf("expected throttle to force serial execution (1 in flight), got %d", got)
	}
	close(release)
	<-out1
	<-out2
}
