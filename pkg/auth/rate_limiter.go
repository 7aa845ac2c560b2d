package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter provides rate limiting functionality
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// SlidingWindowLimiter implements sliding window rate limiting in process
// memory. State does not survive a restart, so in Lambda the distributed
// limiter backs it up.
type SlidingWindowLimiter struct {
	mu         sync.RWMutex
	windows    map[string]*window
	limit      int
	windowSize time.Duration
}

type window struct {
	requests []time.Time
	mu       sync.Mutex
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	limiter := &SlidingWindowLimiter{
		windows:    make(map[string]*window),
		limit:      limit,
		windowSize: windowSize,
	}

	go limiter.cleanup()

	return limiter
}

// Allow checks if a request is allowed
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	w, exists := l.windows[key]
	if !exists {
		w = &window{
			requests: make([]time.Time, 0),
		}
		l.windows[key] = w
	}
	l.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-l.windowSize)

	// Drop requests that fell out of the window
	valid := w.requests[:0]
	for _, reqTime := range w.requests {
		if reqTime.After(windowStart) {
			valid = append(valid, reqTime)
		}
	}
	w.requests = valid

	if len(w.requests) >= l.limit {
		return false, nil
	}

	w.requests = append(w.requests, now)
	return true, nil
}

// Reset resets the rate limit for a key
func (l *SlidingWindowLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, key)
	return nil
}

// cleanup removes idle windows periodically
func (l *SlidingWindowLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-l.windowSize)
		l.mu.Lock()
		for key, w := range l.windows {
			w.mu.Lock()
			idle := len(w.requests) == 0 || w.requests[len(w.requests)-1].Before(cutoff)
			w.mu.Unlock()
			if idle {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

// ScopedRateLimiter namespaces one limiter per key class so IP and user
// counters never collide on the same key string.
type ScopedRateLimiter struct {
	scope   string
	limiter RateLimiter
}

// NewIPRateLimiter creates a per-IP rate limiter
func NewIPRateLimiter(requestsPerMinute int) *ScopedRateLimiter {
	return &ScopedRateLimiter{
		scope:   "ip",
		limiter: NewSlidingWindowLimiter(requestsPerMinute, time.Minute),
	}
}

// NewUserRateLimiter creates a per-user rate limiter
func NewUserRateLimiter(requestsPerMinute int) *ScopedRateLimiter {
	return &ScopedRateLimiter{
		scope:   "user",
		limiter: NewSlidingWindowLimiter(requestsPerMinute, time.Minute),
	}
}

// Allow checks if a request for the scoped key is allowed
func (l *ScopedRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.limiter.Allow(ctx, l.scope+":"+key)
}

// Reset resets the rate limit for the scoped key
func (l *ScopedRateLimiter) Reset(ctx context.Context, key string) error {
	return l.limiter.Reset(ctx, l.scope+":"+key)
}
