package cja

import (
	"context"
	"errors"
	"testing"
	"time"

	cjaerrors "github.com/cjatools/cjadrift/internal/errors"
	"github.com/cjatools/cjadrift/internal/logger"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
}

func TestRetryWithBackoff_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	op := func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return cjaerrors.New(cjaerrors.KindNetwork, "transient")
		}
		return nil
	}

	err := retryWithBackoff(context.Background(), fastRetry(5), logger.NewSimple(), op)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestRetryWithBackoff_ExhaustsAttempts(t *testing.T) {
	calls := 0
	op := func(ctx context.Context) error {
		calls++
		return errors.New("always fails")
	}

	err := retryWithBackoff(context.Background(), fastRetry(3), logger.NewSimple(), op)
	if err == nil {
		t.Fatal("expected the final error")
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestRetryWithBackoff_PermanentErrorsFailFast(t *testing.T) {
	permanent := []error{
		cjaerrors.New(cjaerrors.KindAuth, "bad token"),
		cjaerrors.DataViewNotFound("dv_nope"),
		cjaerrors.New(cjaerrors.KindFormat, "bad payload"),
		cjaerrors.New(cjaerrors.KindValidation, "bad input"),
	}
	for _, want := range permanent {
		calls := 0
		op := func(ctx context.Context) error {
			calls++
			return want
		}
		err := retryWithBackoff(context.Background(), fastRetry(5), logger.NewSimple(), op)
		if !errors.Is(err, want) {
			t.Errorf("got %v, want %v", err, want)
		}
		if calls != 1 {
			t.Errorf("%v retried %d times, want no retries", cjaerrors.KindOf(want), calls)
		}
	}
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	op := func(ctx context.Context) error {
		cancel()
		return cjaerrors.New(cjaerrors.KindNetwork, "transient")
	}

	cfg := RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: time.Second}
	err := retryWithBackoff(ctx, cfg, logger.NewSimple(), op)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
