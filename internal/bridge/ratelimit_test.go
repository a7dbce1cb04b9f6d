package bridge

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsFirstCommand(t *testing.T) {
	var r motorRateLimiter
	if !r.allow(time.Now()) {
		t.Fatal("first command should be allowed")
	}
}

func TestRateLimiterRejectsWithinWindow(t *testing.T) {
	var r motorRateLimiter
	now := time.Now()
	if !r.allow(now) {
		t.Fatal("first command should be allowed")
	}
	if r.allow(now.Add(100 * time.Millisecond)) {
		t.Fatal("command within the rate limit window should be rejected")
	}
}

func TestRateLimiterAllowsAfterWindow(t *testing.T) {
	var r motorRateLimiter
	now := time.Now()
	if !r.allow(now) {
		t.Fatal("first command should be allowed")
	}
	if !r.allow(now.Add(motorRateLimitInterval + time.Millisecond)) {
		t.Fatal("command after the rate limit window should be allowed")
	}
}

func TestRateLimiterRejectionDoesNotResetClock(t *testing.T) {
	var r motorRateLimiter
	now := time.Now()
	r.allow(now)
	r.allow(now.Add(100 * time.Millisecond)) // rejected, must not move the clock
	if r.allow(now.Add(200 * time.Millisecond)) {
		t.Fatal("next allowed time must still be measured from the original accepted command")
	}
	if !r.allow(now.Add(motorRateLimitInterval + time.Millisecond)) {
		t.Fatal("command measured from the original accepted command should now be allowed")
	}
}

func TestRateLimiterIsPerInstance(t *testing.T) {
	var a, b motorRateLimiter
	now := time.Now()
	if !a.allow(now) {
		t.Fatal("first connection's command should be allowed")
	}
	if !b.allow(now) {
		t.Fatal("a different connection's limiter must not be affected by another connection's state")
	}
}
