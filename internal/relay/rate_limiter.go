package relay

import (
	"sync"
	"time"
)

const (
	// sweepInterval is how often Allow scans for stale windows.
	sweepInterval = 5 * time.Minute
	// staleAfter is how long an untouched window survives a sweep.
	staleAfter = 5 * time.Minute
)

// RateLimiter caps signaling messages per sender with a one-minute
// window per user. Windows idle for staleAfter are dropped during the
// periodic sweep, so the per-user map stays bounded on long-running
// processes without a separate janitor task.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	clients   map[string]*clientWindow
	lastSweep time.Time
}

type clientWindow struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a rate limiter allowing limit messages per
// minute per user. A non-positive limit disables limiting.
func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		clients:   make(map[string]*clientWindow),
		lastSweep: time.Now(),
	}
}

// Allow reports whether the user may send another message.
func (rl *RateLimiter) Allow(userID string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) >= sweepInterval {
		rl.sweep(now)
	}

	window, ok := rl.clients[userID]
	if !ok || now.Sub(window.windowStart) >= time.Minute {
		rl.clients[userID] = &clientWindow{count: 1, windowStart: now}
		return true
	}

	if window.count >= rl.limit {
		return false
	}
	window.count++
	return true
}

// sweep drops idle windows. Caller holds the mutex.
func (rl *RateLimiter) sweep(now time.Time) {
	for userID, window := range rl.clients {
		if now.Sub(window.windowStart) > staleAfter {
			delete(rl.clients, userID)
		}
	}
	rl.lastSweep = now
}
