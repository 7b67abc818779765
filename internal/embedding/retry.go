// internal/embedding/retry.go
package embedding

import (
	"context"
	"time"

	"rfp-matching/internal/common/errors"
	"rfp-matching/internal/common/logger"
)

const (
	defaultMaxAttempts   = 3
	defaultRateLimitWait = 60 * time.Second
)

// retryPolicy wraps a provider call with the retry rules: a fixed cooldown
// after a rate-limit error, exponential waits after other provider errors,
// and immediate propagation of anything unexpected.
type retryPolicy struct {
	maxAttempts   int
	rateLimitWait time.Duration
	sleep         func(time.Duration)
	log           logger.Logger
}

func newRetryPolicy(log logger.Logger) *retryPolicy {
	return &retryPolicy{
		maxAttempts:   defaultMaxAttempts,
		rateLimitWait: defaultRateLimitWait,
		sleep:         time.Sleep,
		log:           log,
	}
}

// do invokes fn up to maxAttempts times, waiting between attempts
// according to the error class. The last provider error is returned after
// exhaustion.
func (r *retryPolicy) do(ctx context.Context, fn func(context.Context) ([]float64, error)) ([]float64, error) {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		vector, err := fn(ctx)
		if err == nil {
			return vector, nil
		}

		switch {
		case errors.HasCode(err, errors.ErrCodeEmbeddingRateLimited):
			lastErr = err
			r.log.Warn("embedding provider rate limited", map[string]interface{}{
				"attempt":      attempt,
				"max_attempts": r.maxAttempts,
			})
			if attempt < r.maxAttempts {
				r.sleep(r.rateLimitWait)
			}

		case errors.HasCode(err, errors.ErrCodeEmbeddingProviderError):
			lastErr = err
			wait := time.Duration(1<<uint(attempt)) * time.Second
			r.log.Warn("embedding provider error", map[string]interface{}{
				"attempt":      attempt,
				"max_attempts": r.maxAttempts,
				"error":        err.Error(),
			})
			if attempt < r.maxAttempts {
				r.sleep(wait)
			}

		default:
			// Not a provider error class, propagate without retry.
			return nil, err
		}
	}

	return nil, lastErr
}
