package bridge

import (
	"sync"
	"time"
)

// motorRateLimitInterval is the minimum spacing between successive
// tilt/reset commands on one connection.
const motorRateLimitInterval = 500 * time.Millisecond

// motorRateLimiter enforces motorRateLimitInterval per connection. Rate
// limiting is scoped to one connection rather than shared across the
// server, so each connection gets its own limiter instance.
type motorRateLimiter struct {
	mu   sync.Mutex
	last time.Time
}

// allow reports whether a tilt/reset command may proceed now, and if so
// records the attempt time. A rejected command does not reset the clock:
// the next allowed time stays measured from the last accepted command.
func (r *motorRateLimiter) allow(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.last.IsZero() && now.Sub(r.last) < motorRateLimitInterval {
		return false
	}
	r.last = now
	return true
}
