package signal

import (
	"sync"

	"github.com/dkeye/Talkspace/internal/core"
	"golang.org/x/time/rate"
)

// RateLimiter caps inbound messages per connection.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[core.SessionID]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[core.SessionID]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (rl *RateLimiter) Allow(sid core.SessionID) bool {
	rl.mu.Lock()
	lim, ok := rl.limiters[sid]
	if !ok {
		lim = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[sid] = lim
	}
	rl.mu.Unlock()
	return lim.Allow()
}

func (rl *RateLimiter) Forget(sid core.SessionID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.limiters, sid)
}
