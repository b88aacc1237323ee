// ABOUTME: Retry helpers for calls to the suggestion service
// ABOUTME: Exponential backoff with jitter and a context-aware retry loop
package util

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// MaxBackoff caps a single wait between attempts
const MaxBackoff = 30 * time.Second

// CalculateBackoff returns baseDelay doubled per attempt, capped at MaxBackoff,
// with up to ±25% jitter. Attempt 0 and non-positive delays wait nothing.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > MaxBackoff || backoff <= 0 {
		backoff = MaxBackoff
	}
	half := int64(backoff) / 2
	if half <= 0 {
		return backoff
	}
	jitter := time.Duration(rand.Int64N(half)) - backoff/4
	return backoff + jitter
}

// Retry calls fn up to maxRetries+1 times, sleeping with backoff between attempts.
// It stops early when ctx is done and returns the last error wrapped with the attempt count.
func Retry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if wait := CalculateBackoff(baseDelay, attempt); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry cancelled after %d attempts: %w", attempt, ctx.Err())
			case <-timer.C:
			}
		}

		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)

		if ctx.Err() != nil {
			return fmt.Errorf("retry cancelled after %d attempts: %w", attempt+1, lastErr)
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", maxRetries+1, lastErr)
}
