package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy(retries int) Policy {
	return Policy{MaxRetries: retries, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestRetrySuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Retry(context.Background(), fastPolicy(3), func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Retry() error = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("call count = %d, want 1", calls)
	}
}

func TestRetryEventualSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	var retried []int
	policy := fastPolicy(3)
	policy.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	err := Retry(context.Background(), policy, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Errorf("Retry() error = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("call count = %d, want 3", calls)
	}
	if len(retried) != 2 || retried[0] != 1 || retried[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", retried)
	}
}

func TestRetryExhausted(t *testing.T) {
	t.Parallel()

	calls := 0
	last := errors.New("still down")
	err := Retry(context.Background(), fastPolicy(2), func(context.Context) error {
		calls++
		return last
	})
	if !errors.Is(err, last) {
		t.Errorf("Retry() error = %v, want %v", err, last)
	}
	if calls != 3 {
		t.Errorf("call count = %d, want 3", calls)
	}
}

func TestRetryPermanent(t *testing.T) {
	t.Parallel()

	calls := 0
	base := errors.New("bad request")
	err := Retry(context.Background(), fastPolicy(5), func(context.Context) error {
		calls++
		return Permanent(base)
	})
	if !errors.Is(err, base) {
		t.Errorf("Retry() error = %v, want wrapped %v", err, base)
	}
	if calls != 1 {
		t.Errorf("call count = %d, want 1", calls)
	}
}

func TestRetryContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, fastPolicy(3), func(context.Context) error {
		calls++
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("call count = %d, want 0", calls)
	}
}

func TestRetryCancelledDuringWait(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	policy := Policy{MaxRetries: 3, BaseDelay: time.Hour, MaxDelay: time.Hour}
	policy.OnRetry = func(int, error) { cancel() }

	failure := errors.New("down")
	err := Retry(ctx, policy, func(context.Context) error { return failure })
	if !errors.Is(err, failure) {
		t.Errorf("Retry() error = %v, want last attempt error", err)
	}
}

func TestCalculateBackoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attempt   int
		base, max time.Duration
		want      time.Duration
	}{
		{0, 100 * time.Millisecond, time.Second, 100 * time.Millisecond},
		{1, 100 * time.Millisecond, time.Second, 200 * time.Millisecond},
		{3, 100 * time.Millisecond, time.Second, 800 * time.Millisecond},
		{4, 100 * time.Millisecond, time.Second, time.Second},
		{2, time.Second, time.Second, time.Second},
		{0, 0, 0, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := CalculateBackoff(tt.attempt, tt.base, tt.max, false); got != tt.want {
			t.Errorf("CalculateBackoff(%d, %v, %v) = %v, want %v", tt.attempt, tt.base, tt.max, got, tt.want)
		}
	}
}

func TestCalculateBackoffJitterBounded(t *testing.T) {
	t.Parallel()

	for range 50 {
		got := CalculateBackoff(1, 100*time.Millisecond, 150*time.Millisecond, true)
		if got < 50*time.Millisecond || got > 150*time.Millisecond {
			t.Fatalf("jittered delay %v out of range", got)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("x"), true},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"permanent", Permanent(errors.New("x")), false},
	}
	for _, tt := range tests {
		if got := IsRetryable(tt.err); got != tt.want {
			t.Errorf("IsRetryable(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestOrgUnitPolicy(t *testing.T) {
	t.Parallel()

	if OrgUnitPolicy.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", OrgUnitPolicy.MaxRetries)
	}
	for attempt := range 2 {
		if got := CalculateBackoff(attempt, OrgUnitPolicy.BaseDelay, OrgUnitPolicy.MaxDelay, false); got != time.Second {
			t.Errorf("delay for attempt %d = %v, want 1s", attempt, got)
		}
	}
}
