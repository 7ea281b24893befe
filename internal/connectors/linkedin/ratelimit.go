package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ProactiveRate throttles outgoing Proxycurl calls (requests per second).
	// Proxycurl meters per credit, so calls stay well below the burst cap.
	ProactiveRate = 2.0

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"

	// DefaultBackoff is used when a 429 carries no Retry-After header.
	DefaultBackoff = 10 * time.Second
)

// RateLimitError indicates the Proxycurl API rejected a request for
// exceeding the rate limit.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("proxycurl rate limited until %s", e.ResetAt.Format(time.RFC3339))
}

// RateLimiter combines proactive throttling with reactive backoff taken
// from 429 responses.
type RateLimiter struct {
	mu       sync.Mutex
	bucket   *rate.Limiter
	resumeAt time.Time
}

// NewRateLimiter creates a new rate limiter with proactive throttling.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	resumeAt := r.resumeAt
	r.mu.Unlock()

	if time.Now().Before(resumeAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(resumeAt)):
		}
	}

	return nil
}

// CheckRateLimit inspects a response for rate limiting. Returns a
// RateLimitError on 429, nil otherwise.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	backoff := DefaultBackoff
	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			backoff = time.Duration(seconds) * time.Second
		}
	}

	resetAt := time.Now().Add(backoff)

	r.mu.Lock()
	r.resumeAt = resetAt
	r.mu.Unlock()

	return &RateLimitError{ResetAt: resetAt}
}

// ResumeAt returns when requests may resume after a 429.
func (r *RateLimiter) ResumeAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resumeAt
}
