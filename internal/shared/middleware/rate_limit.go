// Package middleware provides HTTP middleware for the lang-portal API.
package middleware

import (
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"lang-portal/internal/shared/errors"
)

// RateLimiter implements a sliding window rate limiter keyed by client IP.
type RateLimiter struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	limit       int
	window      time.Duration
	now         func() time.Time
	cleanupTick time.Duration
	cleanupStop chan struct{}
	stopOnce    sync.Once
}

// NewRateLimiter creates a new rate limiter allowing limit requests per minute.
func NewRateLimiter(limit int) *RateLimiter {
	return newRateLimiter(limit, time.Minute, time.Now)
}

func newRateLimiter(limit int, window time.Duration, now func() time.Time) *RateLimiter {
	rl := &RateLimiter{
		requests:    make(map[string][]time.Time),
		limit:       limit,
		window:      window,
		now:         now,
		cleanupTick: 5 * window,
		cleanupStop: make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// cleanup periodically drops clients with no requests inside the window.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.prune()
		case <-rl.cleanupStop:
			return
		}
	}
}

func (rl *RateLimiter) prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	windowStart := rl.now().Add(-rl.window)
	for ip, times := range rl.requests {
		valid := inWindow(times, windowStart)
		if len(valid) == 0 {
			delete(rl.requests, ip)
		} else {
			rl.requests[ip] = valid
		}
	}
}

func inWindow(times []time.Time, windowStart time.Time) []time.Time {
	var valid []time.Time
	for _, t := range times {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	return valid
}

// Allow checks if a request from the given IP is allowed.
// Returns (allowed, retryAfter) where retryAfter is the whole seconds, rounded
// up, until the next allowed request.
func (rl *RateLimiter) Allow(ip string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	validRequests := inWindow(rl.requests[ip], now.Add(-rl.window))

	if len(validRequests) >= rl.limit {
		oldestInWindow := validRequests[0]
		retryAfter := int(math.Ceil((rl.window - now.Sub(oldestInWindow)).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		rl.requests[ip] = validRequests
		return false, retryAfter
	}

	rl.requests[ip] = append(validRequests, now)
	return true, 0
}

// Tracked returns the number of clients currently held in memory.
func (rl *RateLimiter) Tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.requests)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.cleanupStop)
	})
}

// clientIP returns the host part of RemoteAddr. Forwarding headers are
// resolved upstream by chi's RealIP middleware.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware creates an HTTP middleware that enforces rate limiting.
// Returns 429 Too Many Requests with a Retry-After header when the limit is exceeded.
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := limiter.Allow(clientIP(r))
			if !allowed {
				errors.WriteError(w, errors.NewRateLimitError(retryAfter))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
