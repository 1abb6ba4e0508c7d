package cja

import (
	"context"
	"math/rand"
	"time"

	cjaerrors "github.com/cjatools/cjadrift/internal/errors"
	"github.com/cjatools/cjadrift/internal/logger"
)

// RetryConfig bounds the retry loop around API calls.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryConfig retries three times with exponential backoff capped
// at ten seconds.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
	}
}

// retryWithBackoff runs op until it succeeds, fails permanently, or the
// attempt budget runs out. Delays double per attempt, capped at MaxDelay,
// with up to 50% jitter on top so parallel workers do not retry in step.
func retryWithBackoff(ctx context.Context, cfg RetryConfig, log logger.Logger, op func(context.Context) error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	delay := cfg.BaseDelay
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !isRetriable(lastErr) || attempt == cfg.MaxAttempts {
			return lastErr
		}

		jitter := time.Duration(rand.Int63n(int64(delay)/2 + 1))
		wait := delay + jitter
		if wait > cfg.MaxDelay {
			wait = cfg.MaxDelay
		}
		log.WithFields(map[string]interface{}{
			"attempt": attempt,
			"wait":    wait.String(),
		}).Warn("API call failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
	return lastErr
}

// isRetriable rejects failures that retrying cannot fix: bad credentials,
// unknown data views, malformed responses.
func isRetriable(err error) bool {
	switch cjaerrors.KindOf(err) {
	case cjaerrors.KindAuth, cjaerrors.KindNotFound, cjaerrors.KindFormat, cjaerrors.KindValidation:
		return false
	}
	return true
}
