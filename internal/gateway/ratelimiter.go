package gateway

import (
	"log/slog"
	"sync"

	"golang.org/x/time/rate"
)

// rateLimitAnomalyLogEvery throttles the "client exceeding rate limit"
// warning to once per this many rejected requests per client, so a client
// stuck in a retry storm doesn't flood the log.
const rateLimitAnomalyLogEvery = 25

// RateLimiter enforces a per-client token bucket over RPC requests, backed
// by golang.org/x/time/rate. A rate of 0 (or less) disables limiting
// entirely.
type RateLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rejected map[string]int
}

// NewRateLimiter creates a limiter allowing rpm requests per minute per
// client id, with up to burst requests allowed at once (the bucket size).
func NewRateLimiter(rpm, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:      rate.Limit(float64(rpm) / 60.0),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
		rejected: make(map[string]int),
	}
}

// Enabled reports whether rate limiting is active.
func (rl *RateLimiter) Enabled() bool { return rl.rps > 0 }

// Allow reports whether the client identified by id may make another
// request right now, consuming a token if so.
func (rl *RateLimiter) Allow(id string) bool {
	if !rl.Enabled() {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	lim, ok := rl.limiters[id]
	if !ok {
		lim = rate.NewLimiter(rl.rps, rl.burst)
		rl.limiters[id] = lim
	}

	if lim.Allow() {
		delete(rl.rejected, id)
		return true
	}

	rl.rejected[id]++
	if rl.rejected[id]%rateLimitAnomalyLogEvery == 0 {
		slog.Warn("gateway: client repeatedly exceeding rate limit", "client", id, "rejected_count", rl.rejected[id])
	}
	return false
}
