package logbook

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// The logbook API allows a fixed number of requests per rolling hour and
// asks clients to back off via Retry-After on 429s.

// RateLimiter paces requests against the logbook API
type RateLimiter struct {
	mu sync.Mutex

	// Hourly window
	hourLimit    int
	hourUsage    int
	hourResetsAt time.Time

	// Minimum interval between requests
	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a rate limiter with the logbook's limits
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		hourLimit:    700,
		hourResetsAt: time.Now().Add(time.Hour),
		minInterval:  200 * time.Millisecond, // 5 req/s max
	}
}

// Wait blocks until a request can be made without exceeding rate limits
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.After(r.hourResetsAt) {
		r.hourUsage = 0
		r.hourResetsAt = now.Add(time.Hour)
	}

	if r.hourUsage >= r.hourLimit {
		waitTime := time.Until(r.hourResetsAt)
		r.mu.Unlock()
		select {
		case <-time.After(waitTime):
		case <-ctx.Done():
			return ctx.Err()
		}
		r.mu.Lock()
		r.hourUsage = 0
		r.hourResetsAt = time.Now().Add(time.Hour)
	}

	// Enforce minimum interval between requests
	elapsed := time.Since(r.lastRequest)
	if elapsed < r.minInterval {
		waitTime := r.minInterval - elapsed
		r.mu.Unlock()
		select {
		case <-time.After(waitTime):
		case <-ctx.Done():
			return ctx.Err()
		}
		r.mu.Lock()
	}

	r.hourUsage++
	r.lastRequest = time.Now()

	return nil
}

// UpdateFromHeaders updates rate limit state from response headers
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit := h.Get("X-RateLimit-Limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			r.hourLimit = n
		}
	}
	if remaining := h.Get("X-RateLimit-Remaining"); remaining != "" {
		if n, err := strconv.Atoi(remaining); err == nil {
			r.hourUsage = r.hourLimit - n
		}
	}
}

// Status returns the remaining requests in the current window
func (r *RateLimiter) Status() (remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hourLimit - r.hourUsage
}
