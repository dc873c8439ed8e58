package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// AuthenticatedRateLimit is the authenticated quota (5000/hour).
	AuthenticatedRateLimit = 5000

	// AnonymousRateLimit is the unauthenticated quota (60/hour).
	AnonymousRateLimit = 60

	// ProactiveRate is the proactive throttle rate (~1.2 req/sec).
	ProactiveRate = 1.2

	// MinBuffer is the minimum remaining requests before waiting for reset.
	MinBuffer = 5

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"
)

// RateLimiter combines proactive throttling with header-driven quota
// tracking for the GitHub API.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	limit     int
	resetTime time.Time
	bucket    *rate.Limiter
	minBuffer int
}

// NewRateLimiter creates a rate limiter. The authenticated flag picks
// the assumed starting quota before the first response headers arrive.
func NewRateLimiter(authenticated bool) *RateLimiter {
	quota := AnonymousRateLimit
	if authenticated {
		quota = AuthenticatedRateLimit
	}
	return &RateLimiter{
		remaining: quota,
		limit:     quota,
		bucket:    rate.NewLimiter(rate.Limit(ProactiveRate), 1),
		minBuffer: MinBuffer,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining := r.remaining
	resetTime := r.resetTime
	r.mu.Unlock()

	if remaining < r.minBuffer && time.Now().Before(resetTime) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(resetTime)):
		}
	}

	return nil
}

// UpdateFromResponse updates quota state from response headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
		}
	}
	if limit := resp.Header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = val
		}
	}
	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.resetTime = time.Unix(val, 0)
		}
	}
}

// Remaining returns the current remaining requests.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the rate limit.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ResetTime returns when the quota resets.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}
