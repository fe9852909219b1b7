// File: internal/services/ai/retry.go
package ai

import (
	"context"
	"time"
)

// Retrying repeats failed answer calls that could plausibly succeed on a
// second try: network errors, rate limits and 5xx replies. Everything else
// is returned after the first attempt.
type Retrying struct {
	next       Provider
	maxRetries int
	delay      time.Duration
	logger     Logger
}

func NewRetrying(next Provider, maxRetries int, delay time.Duration, logger Logger) *Retrying {
	if logger == nil {
		logger = noopLogger{}
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Retrying{next: next, maxRetries: maxRetries, delay: delay, logger: logger}
}

func (r *Retrying) Name() string { return r.next.Name() }

func (r *Retrying) HealthCheck(ctx context.Context) error { return r.next.HealthCheck(ctx) }

func (r *Retrying) Answer(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			r.logger.Debug("retrying answer call", "attempt", attempt, "max_retries", r.maxRetries)
			select {
			case <-ctx.Done():
				return "", lastErr
			case <-time.After(r.delay * time.Duration(attempt)):
			}
		}

		reply, err := r.next.Answer(ctx, prompt)
		if err == nil {
			if attempt > 0 {
				r.logger.Info("answer call succeeded after retry", "attempts", attempt+1)
			}
			return reply, nil
		}
		lastErr = err

		// Don't retry once the caller's deadline is gone or the error is final
		if ctx.Err() != nil || !IsRetryable(err) {
			return "", err
		}
		if attempt < r.maxRetries {
			r.logger.Warn("answer call failed, retrying", "attempt", attempt+1, "error", err)
		}
	}

	r.logger.Error("answer call failed after all retries", "attempts", r.maxRetries+1, "error", lastErr)
	return "", lastErr
}
