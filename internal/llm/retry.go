package llm

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	retryAttempts    = 3
	retryBaseBackoff = 500 * time.Millisecond
)

// rate-limit markers seen in provider error text; providers don't expose
// a structured code for every 429 path.
var rateLimitMarkers = []string{"429", "rate limit", "quota", "resource exhausted", "too many requests"}

// IsRateLimited reports whether the error looks like a rate-limit response.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var providerErr *ProviderError
	if errors.As(err, &providerErr) && providerErr.Code == ErrCodeRateLimit {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// WithRetry runs fn up to a fixed number of attempts with exponential
// backoff and jitter. Rate-limited errors get a doubled wait.
func WithRetry(ctx context.Context, logger *zap.Logger, fn func() (*GenerationResult, error)) (*GenerationResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			backoff := retryBaseBackoff * time.Duration(1<<(attempt-1))
			if IsRateLimited(lastErr) {
				backoff *= 2
			}
			jitter := time.Duration(rand.Int63n(int64(backoff) / 2))
			select {
			case <-time.After(backoff + jitter):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			logger.Warn("retrying LLM call",
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr))
		}
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
